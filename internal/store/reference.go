package store

import (
	"context"
	"database/sql"
	"errors"

	"github.com/fluffle/apiserver/types"
)

// ReferenceRepository reads the immutable animal and security-question
// reference tables.
type ReferenceRepository struct {
	db *sql.DB
}

func NewReferenceRepository(db *sql.DB) *ReferenceRepository {
	return &ReferenceRepository{db: db}
}

func (r *ReferenceRepository) ListAnimals(ctx context.Context) ([]types.Animal, error) {
	const query = `SELECT id, name, icon FROM animals ORDER BY id`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var animals []types.Animal
	for rows.Next() {
		var animal types.Animal
		if err := rows.Scan(&animal.ID, &animal.Name, &animal.Icon); err != nil {
			return nil, err
		}
		animals = append(animals, animal)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return animals, nil
}

func (r *ReferenceRepository) GetAnimal(ctx context.Context, id int) (types.Animal, error) {
	const query = `SELECT id, name, icon FROM animals WHERE id = $1`
	var animal types.Animal
	err := r.db.QueryRowContext(ctx, query, id).Scan(&animal.ID, &animal.Name, &animal.Icon)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return types.Animal{}, ErrNotFound
		}
		return types.Animal{}, err
	}
	return animal, nil
}

func (r *ReferenceRepository) ListSecurityQuestions(ctx context.Context) ([]types.SecurityQuestion, error) {
	const query = `SELECT id, question FROM security_questions ORDER BY id`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var questions []types.SecurityQuestion
	for rows.Next() {
		var question types.SecurityQuestion
		if err := rows.Scan(&question.ID, &question.Question); err != nil {
			return nil, err
		}
		questions = append(questions, question)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return questions, nil
}
