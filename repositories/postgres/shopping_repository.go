package postgres

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/homequeen/api/models"
	"github.com/homequeen/api/repositories"
	"go.uber.org/zap"
)

const itemColumns = `i.id, i.shopping_list_id, i.name, i.quantity, i.unit, i.is_purchased, i.created_at`

func scanItem(s rowScanner) (models.ShoppingItem, error) {
	var it models.ShoppingItem
	err := s.Scan(&it.ID, &it.ShoppingListID, &it.Name, &it.Quantity, &it.Unit, &it.IsPurchased, &it.CreatedAt)
	return it, err
}

// ShoppingRepository implements the repositories.ShoppingRepository interface
type ShoppingRepository struct {
	db     *DB
	logger *zap.Logger
}

// NewShoppingRepository creates a new shopping repository
func NewShoppingRepository(db *DB, logger *zap.Logger) repositories.ShoppingRepository {
	return &ShoppingRepository{db: db, logger: logger}
}

// ListLists returns the owner's lists with their items, newest first
func (r *ShoppingRepository) ListLists(ctx context.Context, ownerID uuid.UUID) ([]models.ShoppingList, error) {
	exec := executor(ctx, r.db)

	rows, err := exec.QueryContext(ctx, `
		SELECT id, user_id, name, created_at
		FROM shopping_lists
		WHERE user_id = $1
		ORDER BY created_at DESC
	`, ownerID)
	if err != nil {
		return nil, classify("list shopping lists", err)
	}
	defer rows.Close()

	lists := []models.ShoppingList{}
	index := map[uuid.UUID]int{}
	for rows.Next() {
		var l models.ShoppingList
		if err := rows.Scan(&l.ID, &l.UserID, &l.Name, &l.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan shopping list: %w", err)
		}
		l.Items = []models.ShoppingItem{}
		index[l.ID] = len(lists)
		lists = append(lists, l)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating shopping list rows: %w", err)
	}
	if len(lists) == 0 {
		return lists, nil
	}

	itemRows, err := exec.QueryContext(ctx, `
		SELECT `+itemColumns+`
		FROM shopping_items i
		JOIN shopping_lists l ON l.id = i.shopping_list_id
		WHERE l.user_id = $1
		ORDER BY i.created_at ASC
	`, ownerID)
	if err != nil {
		return nil, classify("list shopping items", err)
	}
	defer itemRows.Close()

	for itemRows.Next() {
		it, err := scanItem(itemRows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan shopping item: %w", err)
		}
		if i, ok := index[it.ShoppingListID]; ok {
			lists[i].Items = append(lists[i].Items, it)
		}
	}
	if err := itemRows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating shopping item rows: %w", err)
	}

	for i := range lists {
		lists[i].ItemCount = len(lists[i].Items)
	}
	return lists, nil
}

// GetList returns one owned list with its items
func (r *ShoppingRepository) GetList(ctx context.Context, ownerID, id uuid.UUID) (*models.ShoppingList, error) {
	exec := executor(ctx, r.db)

	list := &models.ShoppingList{}
	err := exec.QueryRowContext(ctx, `
		SELECT id, user_id, name, created_at
		FROM shopping_lists
		WHERE id = $1 AND user_id = $2
	`, id, ownerID).Scan(&list.ID, &list.UserID, &list.Name, &list.CreatedAt)
	if err != nil {
		return nil, classify("get shopping list", err)
	}

	rows, err := exec.QueryContext(ctx, `
		SELECT `+itemColumns+`
		FROM shopping_items i
		WHERE i.shopping_list_id = $1
		ORDER BY i.created_at ASC
	`, id)
	if err != nil {
		return nil, classify("list shopping items", err)
	}
	defer rows.Close()

	list.Items = []models.ShoppingItem{}
	for rows.Next() {
		it, err := scanItem(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan shopping item: %w", err)
		}
		list.Items = append(list.Items, it)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating shopping item rows: %w", err)
	}
	list.ItemCount = len(list.Items)

	return list, nil
}

// CreateList inserts a list
func (r *ShoppingRepository) CreateList(ctx context.Context, list *models.ShoppingList) error {
	_, err := executor(ctx, r.db).ExecContext(ctx,
		`INSERT INTO shopping_lists (id, user_id, name, created_at) VALUES ($1, $2, $3, $4)`,
		list.ID, list.UserID, list.Name, list.CreatedAt)
	if err != nil {
		return classify("create shopping list", err)
	}
	return nil
}

// AddItem inserts an item only when the target list belongs to ownerID
func (r *ShoppingRepository) AddItem(ctx context.Context, ownerID uuid.UUID, item *models.ShoppingItem) error {
	query := `
		INSERT INTO shopping_items (id, shopping_list_id, name, quantity, unit, is_purchased, created_at)
		SELECT $1, l.id, $3, $4, $5, $6, $7
		FROM shopping_lists l
		WHERE l.id = $2 AND l.user_id = $8
	`

	result, err := executor(ctx, r.db).ExecContext(ctx, query,
		item.ID,
		item.ShoppingListID,
		item.Name,
		item.Quantity,
		item.Unit,
		item.IsPurchased,
		item.CreatedAt,
		ownerID,
	)
	return expectOne("add shopping item", result, err)
}

// UpdateItem applies a partial update to an item reachable through an owned list
func (r *ShoppingRepository) UpdateItem(ctx context.Context, ownerID, id uuid.UUID, patch models.ShoppingItemPatch) (*models.ShoppingItem, error) {
	query := `
		UPDATE shopping_items i
		SET name = COALESCE($3, i.name),
		    quantity = COALESCE($4, i.quantity),
		    is_purchased = COALESCE($5, i.is_purchased)
		FROM shopping_lists l
		WHERE i.id = $1 AND l.id = i.shopping_list_id AND l.user_id = $2
		RETURNING ` + itemColumns

	it, err := scanItem(executor(ctx, r.db).QueryRowContext(ctx, query,
		id, ownerID, patch.Name, patch.Quantity, patch.IsPurchased))
	if err != nil {
		return nil, classify("update shopping item", err)
	}
	return &it, nil
}

// DeleteItem removes an item reachable through an owned list
func (r *ShoppingRepository) DeleteItem(ctx context.Context, ownerID, id uuid.UUID) error {
	query := `
		DELETE FROM shopping_items i
		USING shopping_lists l
		WHERE i.id = $1 AND l.id = i.shopping_list_id AND l.user_id = $2
	`
	result, err := executor(ctx, r.db).ExecContext(ctx, query, id, ownerID)
	return expectOne("delete shopping item", result, err)
}
