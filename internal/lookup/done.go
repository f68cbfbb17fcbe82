package lookup

import (
	"context"
	"sync"

	"amazonprice/internal/api"
	"amazonprice/internal/extract"

	"go.uber.org/zap"
)

const imagesKey = "images"

// Result 一次调用的结果。Single 为 true 时结果在 Item 中（可能为 nil），
// 否则在 Items 中。
type Result struct {
	Items  []extract.Record
	Item   extract.Record
	Single bool
}

// Value 返回调用方实际关心的值：单条记录或记录列表
func (r Result) Value() any {
	if r.Single {
		if r.Item == nil {
			return nil
		}
		return r.Item
	}
	if r.Items == nil {
		return []extract.Record{}
	}
	return r.Items
}

// Callback 完成回调；出错时 result 为零值
type Callback func(err error, result Result)

// Done 执行请求。回调在独立的 goroutine 中被调用，且至多调用一次。
func (q *Query) Done(ctx context.Context, cb Callback) *Query {
	complete := callOnce(cb)

	operation, params := q.BuildRequest()
	req := api.Request{
		Credentials: q.creds,
		Host:        q.host,
		Operation:   operation,
		Params:      params,
	}

	q.logger.Debug("executing query",
		zap.String("mode", q.mode.String()),
		zap.String("operation", operation),
		zap.String("host", q.host),
	)

	go func() {
		doc, err := q.executor.Execute(ctx, req)
		if err != nil {
			q.onError(err, complete)
			return
		}
		q.onSuccess(doc, complete)
	}()

	return q
}

// Run 执行请求并等待结果
func (q *Query) Run(ctx context.Context) (Result, error) {
	type outcome struct {
		result Result
		err    error
	}
	ch := make(chan outcome, 1)

	q.Done(ctx, func(err error, result Result) {
		ch <- outcome{result: result, err: err}
	})

	select {
	case o := <-ch:
		return o.result, o.err
	case <-ctx.Done():
		return Result{}, ctx.Err()
	}
}

// callOnce 包装回调，保证无论传输层触发几次都只调用一次
func callOnce(cb Callback) Callback {
	var once sync.Once
	return func(err error, result Result) {
		once.Do(func() { cb(err, result) })
	}
}

func (q *Query) onSuccess(doc any, complete Callback) {
	if msg := extract.ExtractError(doc); msg != "" {
		complete(&api.UpstreamError{Message: msg}, Result{})
		return
	}

	rules := q.rules
	if q.loadImages {
		rules = append(append([]extract.Rule(nil), q.rules...), extract.ImagesRule)
	}

	locale := q.locale()
	roots := extract.LocateItemRoots(doc)
	records := make([]extract.Record, 0, len(roots))
	for _, root := range roots {
		records = append(records, extract.Extract(root, rules, locale))
	}

	if q.loadImages {
		for _, r := range records {
			formatImages(r)
		}
	}

	if q.limit > 0 && len(records) > q.limit {
		records = records[:q.limit]
	}

	if q.one {
		result := Result{Single: true}
		if len(records) > 0 {
			result.Item = records[0]
		}
		complete(nil, result)
		return
	}

	complete(nil, Result{Items: records})
}

func (q *Query) onError(err error, complete Callback) {
	complete(err, Result{})
}

// formatImages 把原始图片集替换为图片列表；没有图片数据时删除该键
func formatImages(r extract.Record) {
	if r == nil {
		return
	}

	raw, ok := r[imagesKey]
	if !ok || raw == nil {
		delete(r, imagesKey)
		return
	}
	r[imagesKey] = extract.NormalizeImages(raw)
}
