package mocks

import (
	"context"
	"errors"

	kdb "github.com/athena-research/athena/pkg/db"
)

type ResearchInterface struct {
	Impl struct {
		Find                 func(ctx context.Context, query kdb.ResearchFindQuery) ([]string, error)
		Get                  func(ctx context.Context, ids []string) (map[string]kdb.ResearchArtifact, error)
		AddRating            func(ctx context.Context, id string, stars int) error
		ExistingByArtifactId func(ctx context.Context, kind kdb.ResearchKind, artifactIds []int) (map[int]kdb.ResearchArtifact, error)
		Upsert               func(ctx context.Context, artifacts []kdb.ResearchArtifact) error
	}

	Calls struct {
		Find      CallLog[kdb.ResearchFindQuery]
		Get       CallLog[[]string]
		AddRating CallLog[struct {
			Id    string
			Stars int
		}]
		ExistingByArtifactId CallLog[struct {
			Kind        kdb.ResearchKind
			ArtifactIds []int
		}]
		Upsert CallLog[[]kdb.ResearchArtifact]
	}
}

func NewResearchInterface() *ResearchInterface {
	return &ResearchInterface{}
}

var _ kdb.ResearchInterface = &ResearchInterface{}

func (m *ResearchInterface) Find(ctx context.Context, query kdb.ResearchFindQuery) ([]string, error) {
	m.Calls.Find = append(m.Calls.Find, query)
	if m.Impl.Find != nil {
		return m.Impl.Find(ctx, query)
	}
	panic(errors.New("it should not be called"))
}

func (m *ResearchInterface) Get(ctx context.Context, ids []string) (map[string]kdb.ResearchArtifact, error) {
	m.Calls.Get = append(m.Calls.Get, ids)
	if m.Impl.Get != nil {
		return m.Impl.Get(ctx, ids)
	}
	panic(errors.New("it should not be called"))
}

func (m *ResearchInterface) AddRating(ctx context.Context, id string, stars int) error {
	m.Calls.AddRating = append(m.Calls.AddRating, struct {
		Id    string
		Stars int
	}{Id: id, Stars: stars})
	if m.Impl.AddRating != nil {
		return m.Impl.AddRating(ctx, id, stars)
	}
	panic(errors.New("it should not be called"))
}

func (m *ResearchInterface) ExistingByArtifactId(
	ctx context.Context, kind kdb.ResearchKind, artifactIds []int,
) (map[int]kdb.ResearchArtifact, error) {
	m.Calls.ExistingByArtifactId = append(m.Calls.ExistingByArtifactId, struct {
		Kind        kdb.ResearchKind
		ArtifactIds []int
	}{Kind: kind, ArtifactIds: artifactIds})
	if m.Impl.ExistingByArtifactId != nil {
		return m.Impl.ExistingByArtifactId(ctx, kind, artifactIds)
	}
	panic(errors.New("it should not be called"))
}

func (m *ResearchInterface) Upsert(ctx context.Context, artifacts []kdb.ResearchArtifact) error {
	m.Calls.Upsert = append(m.Calls.Upsert, artifacts)
	if m.Impl.Upsert != nil {
		return m.Impl.Upsert(ctx, artifacts)
	}
	panic(errors.New("it should not be called"))
}
