package usecase

import (
	"time"

	"github.com/shopspring/decimal"
	"github.com/viney-shih/goroutines"

	bCtx "github.com/rentable-xyz/goapi/base/ctx"
	"github.com/rentable-xyz/goapi/base/log"
	"github.com/rentable-xyz/goapi/domain"
	"github.com/rentable-xyz/goapi/domain/project"
	"github.com/rentable-xyz/goapi/domain/statistic"
	"github.com/rentable-xyz/goapi/domain/tokenmanager"
)

type StatisticUseCaseCfg struct {
	StatisticRepo    statistic.Repo
	TokenManagerRepo tokenmanager.Repo
	ProjectRepo      project.Repo
	PaymentMintRepo  domain.PaymentMintRepo
}

type uc struct {
	statisticRepo    statistic.Repo
	tokenManagerRepo tokenmanager.Repo
	projectRepo      project.Repo
	paymentMintRepo  domain.PaymentMintRepo
	timeNow          func() time.Time
}

func New(cfg *StatisticUseCaseCfg) statistic.UseCase {
	return &uc{
		statisticRepo:    cfg.StatisticRepo,
		tokenManagerRepo: cfg.TokenManagerRepo,
		projectRepo:      cfg.ProjectRepo,
		paymentMintRepo:  cfg.PaymentMintRepo,
		timeNow:          time.Now,
	}
}

func (u *uc) Get(ctx bCtx.Ctx, projectId string) (*statistic.ProjectStats, error) {
	stats, err := u.statisticRepo.FindOne(ctx, projectId)
	if err == domain.ErrNotFound {
		return &statistic.ProjectStats{ProjectId: projectId}, nil
	} else if err != nil {
		ctx.WithFields(log.Fields{
			"err":       err,
			"projectId": projectId,
		}).Error("statisticRepo.FindOne failed")
		return nil, err
	}
	return stats, nil
}

// Refresh recomputes the project stats from the current listing
// snapshots. Claimed and invalidated listings count as rentals.
func (u *uc) Refresh(ctx bCtx.Ctx, projectId string) error {
	listings, err := u.tokenManagerRepo.FindAll(ctx,
		tokenmanager.WithProjectId(projectId),
		tokenmanager.WithStates(tokenmanager.StateClaimed, tokenmanager.StateInvalidated),
	)
	if err != nil {
		ctx.WithFields(log.Fields{
			"err":       err,
			"projectId": projectId,
		}).Error("tokenManagerRepo.FindAll failed")
		return err
	}

	mints, err := u.paymentMintRepo.FindAll(ctx)
	if err != nil {
		ctx.WithField("err", err).Error("paymentMintRepo.FindAll failed")
		return err
	}
	decimalsOf := make(map[domain.Address]int32, len(mints))
	for _, m := range mints {
		decimalsOf[m.Mint] = m.Decimals
	}

	stats := &statistic.ProjectStats{
		ProjectId: projectId,
		UpdatedAt: u.timeNow(),
	}
	for _, td := range listings {
		stats.TotalRentals++
		if ti := td.TimeInvalidator; ti != nil && ti.DurationSeconds != nil {
			stats.TotalRentalSeconds += *ti.DurationSeconds
		}
		if ca := td.ClaimApprover; ca != nil {
			stats.TotalRentalVolume += decimal.New(int64(ca.PaymentAmount), -decimalsOf[ca.PaymentMint]).InexactFloat64()
		}
	}

	if err := u.statisticRepo.Upsert(ctx, stats); err != nil {
		ctx.WithFields(log.Fields{
			"err":       err,
			"projectId": projectId,
		}).Error("statisticRepo.Upsert failed")
		return err
	}
	return nil
}

func (u *uc) RefreshAll(ctx bCtx.Ctx) error {
	projects, err := u.projectRepo.FindAll(ctx)
	if err != nil {
		ctx.WithField("err", err).Error("projectRepo.FindAll failed")
		return err
	}
	if len(projects) == 0 {
		return nil
	}

	b := goroutines.NewBatch(10, goroutines.WithBatchSize(len(projects)))
	defer b.Close()
	for i := 0; i < len(projects); i++ {
		idx := i
		b.Queue(func() (interface{}, error) {
			return nil, u.Refresh(ctx, projects[idx].Id)
		})
	}
	b.QueueComplete()

	for ret := range b.Results() {
		if ret.Error() != nil {
			ctx.WithField("err", ret.Error()).Error("refresh project stats error result")
			err = ret.Error()
		}
	}
	return err
}
