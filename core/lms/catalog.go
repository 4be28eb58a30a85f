package lms

import (
	"context"

	"github.com/pkg/errors"
)

// CatalogService answers the read-only questions every user may ask.
type CatalogService struct {
	repo Repository
}

func NewCatalogService(repo Repository) *CatalogService {
	return &CatalogService{repo: repo}
}

func (svc *CatalogService) QueryDepartments(ctx context.Context) ([]Department, error) {
	return svc.repo.QueryDepartments(ctx)
}

// QueryCatalog lists every department with its courses.
func (svc *CatalogService) QueryCatalog(ctx context.Context) ([]CatalogEntry, error) {
	return svc.repo.QueryCatalog(ctx)
}

// QueryClassOfferings lists every offering of a course.
// Returns ErrDepartmentNotFound when subject names no department.
func (svc *CatalogService) QueryClassOfferings(ctx context.Context, subject string, number int) ([]ClassOffering, error) {
	if _, err := resolveDepartment(ctx, svc.repo, subject); err != nil {
		return nil, err
	}
	return svc.repo.QueryClassOfferings(ctx, subject, number)
}

func (svc *CatalogService) GetAssignmentContents(ctx context.Context, key AssignmentKey) (string, error) {
	asg, err := svc.repo.GetAssignment(ctx, key)
	if err != nil {
		return "", err
	}
	return asg.Contents, nil
}

func (svc *CatalogService) GetSubmissionText(ctx context.Context, key AssignmentKey, uid string) (string, error) {
	asg, err := svc.repo.GetAssignment(ctx, key)
	if err != nil {
		if errors.Cause(err) == ErrAssignmentNotFound {
			return "", ErrSubmissionNotFound
		}
		return "", err
	}
	sub, err := svc.repo.GetSubmission(ctx, asg.ID, uid)
	if err != nil {
		return "", err
	}
	return sub.Contents, nil
}
