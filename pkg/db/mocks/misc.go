package mocks

import (
	"context"
	"errors"

	kdb "github.com/athena-research/athena/pkg/db"
)

type CollectionInterface struct {
	Impl struct {
		Register    func(ctx context.Context, name string, owner string, items []kdb.CollectionItem) (kdb.Collection, error)
		FindByOwner func(ctx context.Context, owner string) ([]kdb.Collection, error)
		AddItems    func(ctx context.Context, id string, items []kdb.CollectionItem) error
	}

	Calls struct {
		Register CallLog[struct {
			Name  string
			Owner string
			Items []kdb.CollectionItem
		}]
		FindByOwner CallLog[string]
		AddItems    CallLog[struct {
			Id    string
			Items []kdb.CollectionItem
		}]
	}
}

func NewCollectionInterface() *CollectionInterface {
	return &CollectionInterface{}
}

var _ kdb.CollectionInterface = &CollectionInterface{}

func (m *CollectionInterface) Register(
	ctx context.Context, name string, owner string, items []kdb.CollectionItem,
) (kdb.Collection, error) {
	m.Calls.Register = append(m.Calls.Register, struct {
		Name  string
		Owner string
		Items []kdb.CollectionItem
	}{Name: name, Owner: owner, Items: items})
	if m.Impl.Register != nil {
		return m.Impl.Register(ctx, name, owner, items)
	}
	panic(errors.New("it should not be called"))
}

func (m *CollectionInterface) FindByOwner(ctx context.Context, owner string) ([]kdb.Collection, error) {
	m.Calls.FindByOwner = append(m.Calls.FindByOwner, owner)
	if m.Impl.FindByOwner != nil {
		return m.Impl.FindByOwner(ctx, owner)
	}
	panic(errors.New("it should not be called"))
}

func (m *CollectionInterface) AddItems(ctx context.Context, id string, items []kdb.CollectionItem) error {
	m.Calls.AddItems = append(m.Calls.AddItems, struct {
		Id    string
		Items []kdb.CollectionItem
	}{Id: id, Items: items})
	if m.Impl.AddItems != nil {
		return m.Impl.AddItems(ctx, id, items)
	}
	panic(errors.New("it should not be called"))
}

type FeedbackInterface struct {
	Impl struct {
		Register func(ctx context.Context, feedback kdb.Feedback) (kdb.Feedback, error)
		Find     func(ctx context.Context) ([]kdb.Feedback, error)
	}

	Calls struct {
		Register CallLog[kdb.Feedback]
		Find     CallLog[struct{}]
	}
}

func NewFeedbackInterface() *FeedbackInterface {
	return &FeedbackInterface{}
}

var _ kdb.FeedbackInterface = &FeedbackInterface{}

func (m *FeedbackInterface) Register(ctx context.Context, feedback kdb.Feedback) (kdb.Feedback, error) {
	m.Calls.Register = append(m.Calls.Register, feedback)
	if m.Impl.Register != nil {
		return m.Impl.Register(ctx, feedback)
	}
	panic(errors.New("it should not be called"))
}

func (m *FeedbackInterface) Find(ctx context.Context) ([]kdb.Feedback, error) {
	m.Calls.Find = append(m.Calls.Find, struct{}{})
	if m.Impl.Find != nil {
		return m.Impl.Find(ctx)
	}
	panic(errors.New("it should not be called"))
}

type HomeInterface struct {
	Impl struct {
		Get func(ctx context.Context) (kdb.HomeConfiguration, kdb.HomeStatusBar, error)
		Set func(ctx context.Context, conf kdb.HomeConfiguration, bar kdb.HomeStatusBar) error
	}

	Calls struct {
		Get CallLog[struct{}]
		Set CallLog[struct {
			Conf kdb.HomeConfiguration
			Bar  kdb.HomeStatusBar
		}]
	}
}

func NewHomeInterface() *HomeInterface {
	return &HomeInterface{}
}

var _ kdb.HomeInterface = &HomeInterface{}

func (m *HomeInterface) Get(ctx context.Context) (kdb.HomeConfiguration, kdb.HomeStatusBar, error) {
	m.Calls.Get = append(m.Calls.Get, struct{}{})
	if m.Impl.Get != nil {
		return m.Impl.Get(ctx)
	}
	panic(errors.New("it should not be called"))
}

func (m *HomeInterface) Set(ctx context.Context, conf kdb.HomeConfiguration, bar kdb.HomeStatusBar) error {
	m.Calls.Set = append(m.Calls.Set, struct {
		Conf kdb.HomeConfiguration
		Bar  kdb.HomeStatusBar
	}{Conf: conf, Bar: bar})
	if m.Impl.Set != nil {
		return m.Impl.Set(ctx, conf, bar)
	}
	panic(errors.New("it should not be called"))
}

type SyncInterface struct {
	Impl struct {
		Record func(ctx context.Context, record kdb.SyncRecord) error
		Get    func(ctx context.Context, jobName string) (kdb.SyncRecord, error)
	}

	Calls struct {
		Record CallLog[kdb.SyncRecord]
		Get    CallLog[string]
	}
}

func NewSyncInterface() *SyncInterface {
	return &SyncInterface{}
}

var _ kdb.SyncInterface = &SyncInterface{}

func (m *SyncInterface) Record(ctx context.Context, record kdb.SyncRecord) error {
	m.Calls.Record = append(m.Calls.Record, record)
	if m.Impl.Record != nil {
		return m.Impl.Record(ctx, record)
	}
	panic(errors.New("it should not be called"))
}

func (m *SyncInterface) Get(ctx context.Context, jobName string) (kdb.SyncRecord, error) {
	m.Calls.Get = append(m.Calls.Get, jobName)
	if m.Impl.Get != nil {
		return m.Impl.Get(ctx, jobName)
	}
	panic(errors.New("it should not be called"))
}

type RatingInterface struct {
	Impl struct {
		Recompute func(ctx context.Context) (int, error)
	}

	Calls struct {
		Recompute CallLog[struct{}]
	}
}

func NewRatingInterface() *RatingInterface {
	return &RatingInterface{}
}

var _ kdb.RatingInterface = &RatingInterface{}

func (m *RatingInterface) Recompute(ctx context.Context) (int, error) {
	m.Calls.Recompute = append(m.Calls.Recompute, struct{}{})
	if m.Impl.Recompute != nil {
		return m.Impl.Recompute(ctx)
	}
	panic(errors.New("it should not be called"))
}
