// Package shared holds helpers common to the catalog interactors.
package shared

import (
	"errors"

	"github.com/light-bringer/procat-admin/internal/app/catalog/domain"
	"github.com/light-bringer/procat-admin/internal/pkg/committer"
)

// StepFailure converts a committer error into the catalog error taxonomy.
// Upload failures keep their *domain.UploadError; anything else becomes a
// *domain.StoreError naming the step. fallbackStep labels errors that did
// not come from a step, such as a failed commit.
func StepFailure(err error, fallbackStep string) error {
	if err == nil {
		return nil
	}
	var uploadErr *domain.UploadError
	if errors.As(err, &uploadErr) {
		return uploadErr
	}
	var stepErr *committer.StepError
	if errors.As(err, &stepErr) {
		return &domain.StoreError{Step: stepErr.Step, Err: stepErr.Err}
	}
	return &domain.StoreError{Step: fallbackStep, Err: err}
}

// CascadeFailure is StepFailure for attribute deletions: a failure after
// committed writes becomes a *domain.PartialCascadeError.
func CascadeFailure(err error, kind domain.AttributeKind, id int64) error {
	if err == nil {
		return nil
	}
	var stepErr *committer.StepError
	if errors.As(err, &stepErr) && stepErr.Mutated {
		return &domain.PartialCascadeError{
			Kind:      kind,
			ID:        id,
			Step:      stepErr.Step,
			Completed: stepErr.Completed,
			Err:       &domain.StoreError{Step: stepErr.Step, Err: stepErr.Err},
		}
	}
	return StepFailure(err, "commit")
}
