package mocks

import (
	"context"
	"errors"

	kdb "github.com/athena-research/athena/pkg/db"
)

type RequestInterface struct {
	Impl struct {
		Find    func(ctx context.Context, query kdb.RequestFindQuery) ([]kdb.RequestSummary, error)
		Approve func(ctx context.Context, kind kdb.RequestKind, ids []string, opt kdb.ApproveOption) ([]kdb.Decision, error)
		Reject  func(ctx context.Context, kind kdb.RequestKind, ids []string, comment string) ([]kdb.Decision, error)
	}

	Calls struct {
		Find    CallLog[kdb.RequestFindQuery]
		Approve CallLog[struct {
			Kind kdb.RequestKind
			Ids  []string
			Opt  kdb.ApproveOption
		}]
		Reject CallLog[struct {
			Kind    kdb.RequestKind
			Ids     []string
			Comment string
		}]
	}
}

func NewRequestInterface() *RequestInterface {
	return &RequestInterface{}
}

var _ kdb.RequestInterface = &RequestInterface{}

func (m *RequestInterface) Find(ctx context.Context, query kdb.RequestFindQuery) ([]kdb.RequestSummary, error) {
	m.Calls.Find = append(m.Calls.Find, query)
	if m.Impl.Find != nil {
		return m.Impl.Find(ctx, query)
	}
	panic(errors.New("it should not be called"))
}

func (m *RequestInterface) Approve(
	ctx context.Context, kind kdb.RequestKind, ids []string, opt kdb.ApproveOption,
) ([]kdb.Decision, error) {
	m.Calls.Approve = append(m.Calls.Approve, struct {
		Kind kdb.RequestKind
		Ids  []string
		Opt  kdb.ApproveOption
	}{Kind: kind, Ids: ids, Opt: opt})
	if m.Impl.Approve != nil {
		return m.Impl.Approve(ctx, kind, ids, opt)
	}
	panic(errors.New("it should not be called"))
}

func (m *RequestInterface) Reject(
	ctx context.Context, kind kdb.RequestKind, ids []string, comment string,
) ([]kdb.Decision, error) {
	m.Calls.Reject = append(m.Calls.Reject, struct {
		Kind    kdb.RequestKind
		Ids     []string
		Comment string
	}{Kind: kind, Ids: ids, Comment: comment})
	if m.Impl.Reject != nil {
		return m.Impl.Reject(ctx, kind, ids, comment)
	}
	panic(errors.New("it should not be called"))
}
