package usecase

import (
	"context"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/stgcorp/stalex-shop/internal/domain"
)

// LeadNotifier is told about new leads; delivery failures must not fail the
// submission.
type LeadNotifier interface {
	LeadCreated(l domain.Lead) error
}

type LeadUC struct {
	Leads    domain.LeadRepo
	Notifier LeadNotifier
}

func (uc *LeadUC) Create(ctx context.Context, l *domain.Lead) error {
	l.Name = strings.TrimSpace(l.Name)
	l.Phone = strings.TrimSpace(l.Phone)
	l.Email = strings.TrimSpace(l.Email)
	l.Model = strings.TrimSpace(l.Model)
	if err := uc.Leads.Save(ctx, l); err != nil {
		return err
	}
	if uc.Notifier != nil {
		lead := *l
		go func() {
			if err := uc.Notifier.LeadCreated(lead); err != nil {
				log.Warn().Err(err).Int64("lead", lead.ID).Msg("lead notification")
			}
		}()
	}
	return nil
}

func (uc *LeadUC) List(ctx context.Context) ([]domain.Lead, error) {
	list, err := uc.Leads.List(ctx)
	if err != nil {
		return nil, err
	}
	if list == nil {
		list = []domain.Lead{}
	}
	return list, nil
}

func (uc *LeadUC) Delete(ctx context.Context, id int64) error {
	return uc.Leads.Delete(ctx, id)
}
