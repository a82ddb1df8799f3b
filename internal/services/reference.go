package services

import (
	"context"

	"github.com/fluffle/apiserver/types"
)

// ReferenceRepository defines read operations for reference data.
type ReferenceRepository interface {
	ListAnimals(ctx context.Context) ([]types.Animal, error)
	GetAnimal(ctx context.Context, id int) (types.Animal, error)
	ListSecurityQuestions(ctx context.Context) ([]types.SecurityQuestion, error)
}

// ReferenceService exposes the immutable animal and security-question data.
type ReferenceService struct {
	repo ReferenceRepository
}

func NewReferenceService(repo ReferenceRepository) *ReferenceService {
	return &ReferenceService{repo: repo}
}

func (s *ReferenceService) ListAnimals(ctx context.Context) ([]types.Animal, error) {
	return s.repo.ListAnimals(ctx)
}

func (s *ReferenceService) GetAnimal(ctx context.Context, id int) (types.Animal, error) {
	return s.repo.GetAnimal(ctx, id)
}

func (s *ReferenceService) ListSecurityQuestions(ctx context.Context) ([]types.SecurityQuestion, error) {
	return s.repo.ListSecurityQuestions(ctx)
}
