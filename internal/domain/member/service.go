package member

import (
	"context"
	"strings"

	"membership-admin/pkg/logger"
)

// Service validates input before it reaches the gateway and logs outcomes.
// It satisfies Gateway itself, so callers can stack it in front of any backend.
type Service struct {
	gateway Gateway
	log     logger.Logger
}

func NewService(gateway Gateway, log logger.Logger) *Service {
	return &Service{gateway: gateway, log: logger.Component(log, "member")}
}

func (s *Service) List(ctx context.Context) ([]Member, error) {
	members, err := s.gateway.List(ctx)
	if err != nil {
		s.log.InternalError("member: list failed", err)
		return nil, NewBackendError("list", err)
	}
	if members == nil {
		members = []Member{}
	}
	return members, nil
}

func (s *Service) Get(ctx context.Context, id string) (*Member, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, ErrNotFound
	}

	m, err := s.gateway.Get(ctx, id)
	if err != nil {
		s.log.BusinessError("member: get failed", err, "id", id)
		return nil, NewBackendError("get", err)
	}
	return m, nil
}

func (s *Service) Insert(ctx context.Context, fields Fields) (*Member, error) {
	fields = Normalize(fields)
	if err := Validate(fields); err != nil {
		s.log.BusinessError("member: insert rejected", err)
		return nil, err
	}

	created, err := s.gateway.Insert(ctx, fields)
	if err != nil {
		s.log.InternalError("member: insert failed", err)
		return nil, NewBackendError("insert", err)
	}
	s.log.Info("member: inserted", "id", created.ID)
	return created, nil
}

func (s *Service) Update(ctx context.Context, id string, fields Fields) (*Member, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, ErrNotFound
	}

	fields = Normalize(fields)
	if err := Validate(fields); err != nil {
		s.log.BusinessError("member: update rejected", err, "id", id)
		return nil, err
	}

	updated, err := s.gateway.Update(ctx, id, fields)
	if err != nil {
		s.log.InternalError("member: update failed", err, "id", id)
		return nil, NewBackendError("update", err)
	}
	s.log.Info("member: updated", "id", id)
	return updated, nil
}

func (s *Service) Delete(ctx context.Context, id string) error {
	id = strings.TrimSpace(id)
	if id == "" {
		return ErrNotFound
	}

	if err := s.gateway.Delete(ctx, id); err != nil {
		s.log.InternalError("member: delete failed", err, "id", id)
		return NewBackendError("delete", err)
	}
	s.log.Info("member: deleted", "id", id)
	return nil
}

// Search loads the full set and narrows it in memory.
func (s *Service) Search(ctx context.Context, q Query) ([]Member, error) {
	members, err := s.List(ctx)
	if err != nil {
		return nil, err
	}
	return ApplyQuery(members, q), nil
}

func (s *Service) Stats(ctx context.Context) (Stats, error) {
	members, err := s.List(ctx)
	if err != nil {
		return Stats{}, err
	}
	return ComputeStats(members), nil
}
