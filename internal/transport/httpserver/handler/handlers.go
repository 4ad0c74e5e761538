package handler

import (
	memberdomain "membership-admin/internal/domain/member"
	"membership-admin/internal/ui"
	"membership-admin/pkg/logger"
)

type Handlers struct {
	Members *memberdomain.Service
	Panel   *ui.Panel
	Options ui.Options
	pages   *pages
	log     logger.Logger
}

func New(members *memberdomain.Service, panel *ui.Panel, options ui.Options, log logger.Logger) *Handlers {
	return &Handlers{
		Members: members,
		Panel:   panel,
		Options: options,
		pages:   mustParsePages(),
		log:     logger.Component(log, "http"),
	}
}
