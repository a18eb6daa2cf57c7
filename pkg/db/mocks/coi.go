package mocks

import (
	"context"
	"errors"

	kdb "github.com/athena-research/athena/pkg/db"
)

type CoiInterface struct {
	Impl struct {
		Register        func(ctx context.Context, spec kdb.CoiSpec) (kdb.Coi, error)
		Find            func(ctx context.Context, query kdb.CoiFindQuery) ([]string, error)
		Get             func(ctx context.Context, ids []string) (map[string]kdb.Coi, error)
		AddMember       func(ctx context.Context, id string, member kdb.CoiMember) error
		AddRating       func(ctx context.Context, id string, stars int) error
		SetTeam         func(ctx context.Context, id string, teamId string, groupLink string) error
		ExistingByCoiId func(ctx context.Context, coiIds []int) (map[int]kdb.Coi, error)
		Upsert          func(ctx context.Context, cois []kdb.Coi) error
	}

	Calls struct {
		Register  CallLog[kdb.CoiSpec]
		Find      CallLog[kdb.CoiFindQuery]
		Get       CallLog[[]string]
		AddMember CallLog[struct {
			Id     string
			Member kdb.CoiMember
		}]
		AddRating CallLog[struct {
			Id    string
			Stars int
		}]
		SetTeam CallLog[struct {
			Id        string
			TeamId    string
			GroupLink string
		}]
		ExistingByCoiId CallLog[[]int]
		Upsert          CallLog[[]kdb.Coi]
	}
}

func NewCoiInterface() *CoiInterface {
	return &CoiInterface{}
}

var _ kdb.CoiInterface = &CoiInterface{}

func (m *CoiInterface) Register(ctx context.Context, spec kdb.CoiSpec) (kdb.Coi, error) {
	m.Calls.Register = append(m.Calls.Register, spec)
	if m.Impl.Register != nil {
		return m.Impl.Register(ctx, spec)
	}
	panic(errors.New("it should not be called"))
}

func (m *CoiInterface) Find(ctx context.Context, query kdb.CoiFindQuery) ([]string, error) {
	m.Calls.Find = append(m.Calls.Find, query)
	if m.Impl.Find != nil {
		return m.Impl.Find(ctx, query)
	}
	panic(errors.New("it should not be called"))
}

func (m *CoiInterface) Get(ctx context.Context, ids []string) (map[string]kdb.Coi, error) {
	m.Calls.Get = append(m.Calls.Get, ids)
	if m.Impl.Get != nil {
		return m.Impl.Get(ctx, ids)
	}
	panic(errors.New("it should not be called"))
}

func (m *CoiInterface) AddMember(ctx context.Context, id string, member kdb.CoiMember) error {
	m.Calls.AddMember = append(m.Calls.AddMember, struct {
		Id     string
		Member kdb.CoiMember
	}{Id: id, Member: member})
	if m.Impl.AddMember != nil {
		return m.Impl.AddMember(ctx, id, member)
	}
	panic(errors.New("it should not be called"))
}

func (m *CoiInterface) AddRating(ctx context.Context, id string, stars int) error {
	m.Calls.AddRating = append(m.Calls.AddRating, struct {
		Id    string
		Stars int
	}{Id: id, Stars: stars})
	if m.Impl.AddRating != nil {
		return m.Impl.AddRating(ctx, id, stars)
	}
	panic(errors.New("it should not be called"))
}

func (m *CoiInterface) SetTeam(ctx context.Context, id string, teamId string, groupLink string) error {
	m.Calls.SetTeam = append(m.Calls.SetTeam, struct {
		Id        string
		TeamId    string
		GroupLink string
	}{Id: id, TeamId: teamId, GroupLink: groupLink})
	if m.Impl.SetTeam != nil {
		return m.Impl.SetTeam(ctx, id, teamId, groupLink)
	}
	panic(errors.New("it should not be called"))
}

func (m *CoiInterface) ExistingByCoiId(ctx context.Context, coiIds []int) (map[int]kdb.Coi, error) {
	m.Calls.ExistingByCoiId = append(m.Calls.ExistingByCoiId, coiIds)
	if m.Impl.ExistingByCoiId != nil {
		return m.Impl.ExistingByCoiId(ctx, coiIds)
	}
	panic(errors.New("it should not be called"))
}

func (m *CoiInterface) Upsert(ctx context.Context, cois []kdb.Coi) error {
	m.Calls.Upsert = append(m.Calls.Upsert, cois)
	if m.Impl.Upsert != nil {
		return m.Impl.Upsert(ctx, cois)
	}
	panic(errors.New("it should not be called"))
}
