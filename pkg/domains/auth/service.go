package auth

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/happycrm/crm/pkg/constant"
	"github.com/happycrm/crm/pkg/dtos"
	"github.com/happycrm/crm/pkg/entities"
	"github.com/happycrm/crm/pkg/utils"
	"github.com/golang-jwt/jwt"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type Service interface {
	Register(ctx context.Context, req dtos.DTOForOperatorCreate) (string, error)
	Login(ctx context.Context, req dtos.DTOForOperatorLogin) (string, error)
}

type service struct {
	repository Repository
	validator  *utils.CustomValidator
}

func NewService(r Repository) Service {
	return &service{
		repository: r,
		validator:  utils.NewCustomValidator(),
	}
}

func (s *service) Register(ctx context.Context, req dtos.DTOForOperatorCreate) (string, error) {
	if err := s.validator.Validator.Var(req.Phone, "isphone"); err != nil {
		return "", fmt.Errorf(constant.EMAIL_OR_PHONE)
	}

	// Check if operator already exists
	existing, err := s.repository.FindOperatorByEmailOrPhone(ctx, req.Email, req.Phone)
	if err != nil && err != gorm.ErrRecordNotFound {
		return "", fmt.Errorf(constant.SOMETHING_WENT_WRONG)
	}

	if existing.ID != 0 {
		return "", fmt.Errorf(constant.ALREADY_EXISTS, "Operator")
	}

	passwordHash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}

	operator := entities.Operator{
		Email:    req.Email,
		Password: string(passwordHash),
		Name:     req.Name,
		Surname:  req.Surname,
		Phone:    req.Phone,
	}

	if err := s.repository.CreateOperator(ctx, operator); err != nil {
		return "", err
	}

	return s.issueToken(operator.ID)
}

func (s *service) Login(ctx context.Context, req dtos.DTOForOperatorLogin) (string, error) {
	operator, err := s.repository.FindOperatorByEmail(ctx, req.Email)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return "", fmt.Errorf(constant.EMAIL_OR_PHONE)
		}
		return "", fmt.Errorf(constant.SOMETHING_WENT_WRONG)
	}

	err = bcrypt.CompareHashAndPassword([]byte(operator.Password), []byte(req.Password))
	if err != nil {
		return "", fmt.Errorf(constant.UNAUTHORIZED_ACCESS)
	}

	return s.issueToken(operator.ID)
}

func (s *service) issueToken(operatorID uint) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"id":  operatorID,
		"exp": time.Now().Add(time.Hour * 24).Unix(),
	})

	return token.SignedString([]byte(os.Getenv("SECRET")))
}
