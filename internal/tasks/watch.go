package tasks

import (
	"context"
	"fmt"
	"time"

	"amazonprice/internal/api"
	"amazonprice/internal/config"
	"amazonprice/internal/extract"
	"amazonprice/internal/lookup"
	"amazonprice/internal/task"

	"github.com/samber/lo"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// maxConcurrentTargets 同一任务内并发执行的查询数
const maxConcurrentTargets = 4

// WatchTask 价格监控任务：按计划执行一组查询并记录提取到的价格
type WatchTask struct {
	job      config.WatchJob
	executor api.Executor
	creds    api.Credentials
	country  string
	logger   *zap.Logger
}

// WatchConfig 监控任务依赖
type WatchConfig struct {
	Job         config.WatchJob
	Executor    api.Executor
	Credentials api.Credentials
	Country     string // 目标未指定国家时使用
	Logger      *zap.Logger
}

// NewWatchTask 创建监控任务
func NewWatchTask(cfg WatchConfig) task.Task {
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}

	return &WatchTask{
		job:      cfg.Job,
		executor: cfg.Executor,
		creds:    cfg.Credentials,
		country:  cfg.Country,
		logger:   cfg.Logger.With(zap.String("task", cfg.Job.Name)),
	}
}

func (t *WatchTask) Name() string {
	return t.job.Name
}

func (t *WatchTask) Schedule() string {
	return t.job.Schedule
}

func (t *WatchTask) Timeout() time.Duration {
	return t.job.TimeoutDuration
}

func (t *WatchTask) Enabled() bool {
	return t.job.Enabled && len(t.job.Targets) > 0
}

// Run 并发执行所有目标查询，返回第一个失败目标的错误
func (t *WatchTask) Run(ctx context.Context) error {
	var g errgroup.Group
	g.SetLimit(maxConcurrentTargets)

	for i, target := range t.job.Targets {
		g.Go(func() error {
			result, err := t.Query(target).Run(ctx)
			if err != nil {
				t.logger.Warn("watch target failed",
					zap.Int("target", i),
					zap.String("query", describeTarget(target)),
					zap.Error(err),
				)
				return fmt.Errorf("target %d (%s): %w", i, describeTarget(target), err)
			}
			t.logRecords(i, target, records(result))
			return nil
		})
	}

	return g.Wait()
}

// Query 为目标构建一个新的查询，每次执行都使用新实例
func (t *WatchTask) Query(target config.WatchTarget) *lookup.Query {
	country := target.Country
	if country == "" {
		country = t.country
	}

	q := lookup.New(targetInput(target), t.executor,
		lookup.WithCredentials(t.creds),
		lookup.WithCountry(country),
	).
		Price(target.Price).
		SearchIndex(target.Index).
		BrowseNode(target.Node).
		Limit(target.Limit).
		One(target.One).
		LoadImages(target.Images)

	if target.Page > 0 {
		q.Page(target.Page)
	}
	return q
}

func (t *WatchTask) logRecords(i int, target config.WatchTarget, recs []extract.Record) {
	if len(recs) == 0 {
		t.logger.Info("watch target returned no items",
			zap.Int("target", i),
			zap.String("query", describeTarget(target)),
		)
		return
	}

	for _, r := range recs {
		t.logger.Info("price observed",
			zap.Int("target", i),
			zap.Any("id", r["id"]),
			zap.Any("name", r["name"]),
			zap.Any("lowest_price", r["lowestPrice"]),
			zap.Any("offer_price", r["offerPrice"]),
			zap.Any("list_price", r["listPrice"]),
			zap.Any("remaining", r["remaining"]),
		)
	}
}

// targetInput 按 ID、EAN、关键词的顺序选择查询输入
func targetInput(target config.WatchTarget) lookup.Input {
	switch {
	case target.ID != "":
		return lookup.ByID(target.ID)
	case target.EAN != "":
		return lookup.ByEAN(target.EAN)
	default:
		return lookup.ByKeywords(target.Keywords)
	}
}

func describeTarget(target config.WatchTarget) string {
	switch {
	case target.ID != "":
		return "id:" + target.ID
	case target.EAN != "":
		return "ean:" + target.EAN
	default:
		return "keywords:" + target.Keywords
	}
}

// records 把结果统一成非 nil 记录列表
func records(result lookup.Result) []extract.Record {
	if result.Single {
		if result.Item == nil {
			return nil
		}
		return []extract.Record{result.Item}
	}
	return lo.Filter(result.Items, func(r extract.Record, _ int) bool {
		return r != nil
	})
}
