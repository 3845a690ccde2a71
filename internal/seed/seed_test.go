package seed

import (
	"testing"
	"time"

	"github.com/homequeen/api/internal/events"
	"github.com/homequeen/api/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuild(t *testing.T) {
	now := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	fx := Build("$2a$10$hash", now)

	require.NotNil(t, fx.Wife.Email)
	assert.Equal(t, WifeEmail, *fx.Wife.Email)
	assert.Equal(t, models.RoleWife, fx.Wife.Role)
	assert.Equal(t, models.RoleServiceProvider, fx.ProviderUser.Role)
	assert.True(t, fx.Wife.HasPassword())
	require.NotNil(t, fx.Wife.FamilyID)
	assert.Equal(t, fx.Family.ID, *fx.Wife.FamilyID)
	assert.Equal(t, "Ahmed Family", fx.Family.Name)

	prices := map[models.ServiceCategory]float64{}
	for _, s := range fx.Services {
		prices[s.Category] = s.BasePrice
	}
	assert.Equal(t, map[models.ServiceCategory]float64{
		models.CategoryCleaning:   150,
		models.CategoryPlumbing:   200,
		models.CategoryBabysitter: 80,
	}, prices)

	assert.True(t, fx.Provider.IsApproved)
	assert.Equal(t, fx.ProviderUser.ID, fx.Provider.UserID)
	assert.Equal(t, fx.Services[0].ID, fx.Provider.ServiceID)

	require.Len(t, fx.Tasks, 3)
	assert.Equal(t, models.TaskCompleted, fx.Tasks[2].Status)
	assert.NotNil(t, fx.Tasks[2].CompletedAt)
	assert.Nil(t, fx.Tasks[0].CompletedAt)
	require.Len(t, fx.Expenses, 3)
	require.Len(t, fx.Notifications, 1)
	assert.Equal(t, events.WelcomeTitle, fx.Notifications[0].Title)
	assert.Equal(t, fx.Wife.ID, fx.Notifications[0].UserID)
}

func TestBuild_IDsAreStable(t *testing.T) {
	a := Build("x", time.Now())
	b := Build("y", time.Now().Add(time.Hour))

	assert.Equal(t, a.Wife.ID, b.Wife.ID)
	assert.Equal(t, a.Family.ID, b.Family.ID)
	assert.Equal(t, a.Provider.ID, b.Provider.ID)
	for i := range a.Tasks {
		assert.Equal(t, a.Tasks[i].ID, b.Tasks[i].ID)
	}
	assert.NotEqual(t, a.Wife.ID, a.ProviderUser.ID)
	assert.Equal(t, ID("family/ahmed"), a.Family.ID)
}
