package auth

import (
	"context"

	"github.com/happycrm/crm/pkg/entities"
	"gorm.io/gorm"
)

type Repository interface {
	CreateOperator(ctx context.Context, operator entities.Operator) error
	FindOperatorByEmail(ctx context.Context, email string) (entities.Operator, error)
	FindOperatorByEmailOrPhone(ctx context.Context, email string, phone string) (entities.Operator, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepo(db *gorm.DB) Repository {
	return &repository{
		db: db,
	}
}

func (r *repository) CreateOperator(ctx context.Context, operator entities.Operator) error {
	return r.db.WithContext(ctx).Create(&operator).Error
}

func (r *repository) FindOperatorByEmail(ctx context.Context, email string) (entities.Operator, error) {
	var operator entities.Operator
	err := r.db.WithContext(ctx).Where("email = ?", email).First(&operator).Error
	return operator, err
}

func (r *repository) FindOperatorByEmailOrPhone(ctx context.Context, email string, phone string) (entities.Operator, error) {
	var operator entities.Operator
	err := r.db.WithContext(ctx).Where("email = ? OR phone = ?", email, phone).First(&operator).Error
	return operator, err
}
