package accounts

import (
	"context"

	"github.com/textping/accountd/internal/server/models"
)

type Repository interface {
	Create(ctx context.Context, account *models.Account) (*models.Account, error)
	FindByEmail(ctx context.Context, email string) (*models.Account, error)
	FindByToken(ctx context.Context, token string) (*models.Account, error)
	UpdateToken(ctx context.Context, email string, token string) error
	UpdateEmail(ctx context.Context, id int64, email string) error
	Delete(ctx context.Context, id int64) (*models.Account, error)
	SetSubscription(ctx context.Context, id int64, textTime string, phoneNumber string) error
}
