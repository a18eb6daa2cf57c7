package mocks

import (
	"context"
	"errors"

	kdb "github.com/athena-research/athena/pkg/db"
)

type CatalogInterface struct {
	Impl struct {
		FindEntries       func(ctx context.Context, query kdb.DirectoryFindQuery) ([]kdb.DirectoryEntry, error)
		GetEntries        func(ctx context.Context, family kdb.DirectoryFamily, ids []string) (map[string]kdb.DirectoryEntry, error)
		ExistingByEntryId func(ctx context.Context, family kdb.DirectoryFamily, entryIds []int) (map[int]kdb.DirectoryEntry, error)
		UpsertEntries     func(ctx context.Context, entries []kdb.DirectoryEntry) error
		Keywords          func(ctx context.Context) ([]kdb.Keyword, error)
		UpsertKeywords    func(ctx context.Context, keywords []kdb.Keyword) error
		GetUser           func(ctx context.Context, id string) (kdb.User, error)
		FindUsers         func(ctx context.Context, search string, skip int, top int) ([]kdb.User, error)
		ExistingByUserId  func(ctx context.Context, userIds []int) (map[int]kdb.User, error)
		UpsertUsers       func(ctx context.Context, users []kdb.User) error
	}

	Calls struct {
		FindEntries CallLog[kdb.DirectoryFindQuery]
		GetEntries  CallLog[struct {
			Family kdb.DirectoryFamily
			Ids    []string
		}]
		ExistingByEntryId CallLog[struct {
			Family   kdb.DirectoryFamily
			EntryIds []int
		}]
		UpsertEntries  CallLog[[]kdb.DirectoryEntry]
		Keywords       CallLog[struct{}]
		UpsertKeywords CallLog[[]kdb.Keyword]
		GetUser        CallLog[string]
		FindUsers      CallLog[struct {
			Search string
			Skip   int
			Top    int
		}]
		ExistingByUserId CallLog[[]int]
		UpsertUsers      CallLog[[]kdb.User]
	}
}

func NewCatalogInterface() *CatalogInterface {
	return &CatalogInterface{}
}

var _ kdb.CatalogInterface = &CatalogInterface{}

func (m *CatalogInterface) FindEntries(ctx context.Context, query kdb.DirectoryFindQuery) ([]kdb.DirectoryEntry, error) {
	m.Calls.FindEntries = append(m.Calls.FindEntries, query)
	if m.Impl.FindEntries != nil {
		return m.Impl.FindEntries(ctx, query)
	}
	panic(errors.New("it should not be called"))
}

func (m *CatalogInterface) GetEntries(
	ctx context.Context, family kdb.DirectoryFamily, ids []string,
) (map[string]kdb.DirectoryEntry, error) {
	m.Calls.GetEntries = append(m.Calls.GetEntries, struct {
		Family kdb.DirectoryFamily
		Ids    []string
	}{Family: family, Ids: ids})
	if m.Impl.GetEntries != nil {
		return m.Impl.GetEntries(ctx, family, ids)
	}
	panic(errors.New("it should not be called"))
}

func (m *CatalogInterface) ExistingByEntryId(
	ctx context.Context, family kdb.DirectoryFamily, entryIds []int,
) (map[int]kdb.DirectoryEntry, error) {
	m.Calls.ExistingByEntryId = append(m.Calls.ExistingByEntryId, struct {
		Family   kdb.DirectoryFamily
		EntryIds []int
	}{Family: family, EntryIds: entryIds})
	if m.Impl.ExistingByEntryId != nil {
		return m.Impl.ExistingByEntryId(ctx, family, entryIds)
	}
	panic(errors.New("it should not be called"))
}

func (m *CatalogInterface) UpsertEntries(ctx context.Context, entries []kdb.DirectoryEntry) error {
	m.Calls.UpsertEntries = append(m.Calls.UpsertEntries, entries)
	if m.Impl.UpsertEntries != nil {
		return m.Impl.UpsertEntries(ctx, entries)
	}
	panic(errors.New("it should not be called"))
}

func (m *CatalogInterface) Keywords(ctx context.Context) ([]kdb.Keyword, error) {
	m.Calls.Keywords = append(m.Calls.Keywords, struct{}{})
	if m.Impl.Keywords != nil {
		return m.Impl.Keywords(ctx)
	}
	panic(errors.New("it should not be called"))
}

func (m *CatalogInterface) UpsertKeywords(ctx context.Context, keywords []kdb.Keyword) error {
	m.Calls.UpsertKeywords = append(m.Calls.UpsertKeywords, keywords)
	if m.Impl.UpsertKeywords != nil {
		return m.Impl.UpsertKeywords(ctx, keywords)
	}
	panic(errors.New("it should not be called"))
}

func (m *CatalogInterface) GetUser(ctx context.Context, id string) (kdb.User, error) {
	m.Calls.GetUser = append(m.Calls.GetUser, id)
	if m.Impl.GetUser != nil {
		return m.Impl.GetUser(ctx, id)
	}
	panic(errors.New("it should not be called"))
}

func (m *CatalogInterface) FindUsers(ctx context.Context, search string, skip int, top int) ([]kdb.User, error) {
	m.Calls.FindUsers = append(m.Calls.FindUsers, struct {
		Search string
		Skip   int
		Top    int
	}{Search: search, Skip: skip, Top: top})
	if m.Impl.FindUsers != nil {
		return m.Impl.FindUsers(ctx, search, skip, top)
	}
	panic(errors.New("it should not be called"))
}

func (m *CatalogInterface) ExistingByUserId(ctx context.Context, userIds []int) (map[int]kdb.User, error) {
	m.Calls.ExistingByUserId = append(m.Calls.ExistingByUserId, userIds)
	if m.Impl.ExistingByUserId != nil {
		return m.Impl.ExistingByUserId(ctx, userIds)
	}
	panic(errors.New("it should not be called"))
}

func (m *CatalogInterface) UpsertUsers(ctx context.Context, users []kdb.User) error {
	m.Calls.UpsertUsers = append(m.Calls.UpsertUsers, users)
	if m.Impl.UpsertUsers != nil {
		return m.Impl.UpsertUsers(ctx, users)
	}
	panic(errors.New("it should not be called"))
}
