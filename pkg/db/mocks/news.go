package mocks

import (
	"context"
	"errors"

	kdb "github.com/athena-research/athena/pkg/db"
)

type NewsInterface struct {
	Impl struct {
		Register   func(ctx context.Context, spec kdb.NewsSpec) (kdb.News, error)
		Find       func(ctx context.Context, query kdb.NewsFindQuery) ([]string, error)
		Get        func(ctx context.Context, ids []string) (map[string]kdb.News, error)
		AddRating  func(ctx context.Context, id string, stars int) error
		SoftDelete func(ctx context.Context, id string) error
	}

	Calls struct {
		Register  CallLog[kdb.NewsSpec]
		Find      CallLog[kdb.NewsFindQuery]
		Get       CallLog[[]string]
		AddRating CallLog[struct {
			Id    string
			Stars int
		}]
		SoftDelete CallLog[string]
	}
}

func NewNewsInterface() *NewsInterface {
	return &NewsInterface{}
}

var _ kdb.NewsInterface = &NewsInterface{}

func (m *NewsInterface) Register(ctx context.Context, spec kdb.NewsSpec) (kdb.News, error) {
	m.Calls.Register = append(m.Calls.Register, spec)
	if m.Impl.Register != nil {
		return m.Impl.Register(ctx, spec)
	}
	panic(errors.New("it should not be called"))
}

func (m *NewsInterface) Find(ctx context.Context, query kdb.NewsFindQuery) ([]string, error) {
	m.Calls.Find = append(m.Calls.Find, query)
	if m.Impl.Find != nil {
		return m.Impl.Find(ctx, query)
	}
	panic(errors.New("it should not be called"))
}

func (m *NewsInterface) Get(ctx context.Context, ids []string) (map[string]kdb.News, error) {
	m.Calls.Get = append(m.Calls.Get, ids)
	if m.Impl.Get != nil {
		return m.Impl.Get(ctx, ids)
	}
	panic(errors.New("it should not be called"))
}

func (m *NewsInterface) AddRating(ctx context.Context, id string, stars int) error {
	m.Calls.AddRating = append(m.Calls.AddRating, struct {
		Id    string
		Stars int
	}{Id: id, Stars: stars})
	if m.Impl.AddRating != nil {
		return m.Impl.AddRating(ctx, id, stars)
	}
	panic(errors.New("it should not be called"))
}

func (m *NewsInterface) SoftDelete(ctx context.Context, id string) error {
	m.Calls.SoftDelete = append(m.Calls.SoftDelete, id)
	if m.Impl.SoftDelete != nil {
		return m.Impl.SoftDelete(ctx, id)
	}
	panic(errors.New("it should not be called"))
}
