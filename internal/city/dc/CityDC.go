package dc

import (
	"context"
	"errors"
	"sync"
	"time"

	"Civitas/internal/city/app/port"
	"Civitas/internal/city/domain"
	"Civitas/internal/city/entity"
	"Civitas/modules/kit/logx"

	"go.uber.org/zap"
)

const (
	defaultFlushEvery = 3 * time.Second
	retryBackoff      = 200 * time.Millisecond
)

// CityDC 单个城市的写回缓存：actor 内同步生成快照，后台 goroutine 异步写库。
// 待写队列只保留最新版本，写失败会重试直到被更新的快照替换或关闭。
type CityDC struct {
	repo       port.CityRepository
	entity     *entity.City
	flushEvery time.Duration
	log        logx.Logger

	mu      sync.Mutex
	pending *entity.CityPersistSnapshot
	version uint64
	closed  bool

	wake chan struct{}
	stop chan struct{}
	done chan struct{}
}

func NewCityDC(repo port.CityRepository, flushEvery time.Duration, log logx.Logger) *CityDC {
	if flushEvery < 0 {
		flushEvery = 0
	} else if flushEvery == 0 {
		flushEvery = defaultFlushEvery
	}
	if log == nil {
		log = logx.Nop()
	}
	d := &CityDC{
		repo:       repo,
		flushEvery: flushEvery,
		log:        log,
		wake:       make(chan struct{}, 1),
		stop:       make(chan struct{}),
		done:       make(chan struct{}),
	}
	go d.writerLoop()
	return d
}

// Load 读取快照；没有快照时返回 (nil, false, nil)，由调用方按剧本建城。
func (d *CityDC) Load(ctx context.Context, id domain.CityID) (*entity.CityPersistSnapshot, bool, error) {
	if d.repo == nil {
		return nil, false, errors.New("city repository is nil")
	}
	s, ok, err := d.repo.Load(ctx, id)
	if err != nil || !ok {
		return nil, false, err
	}
	d.mu.Lock()
	if s.Version > d.version {
		d.version = s.Version
	}
	d.mu.Unlock()
	return s, true, nil
}

// Attach 绑定 actor 持有的城市实体。
func (d *CityDC) Attach(c *entity.City) {
	d.entity = c
}

func (d *CityDC) Flush(ctx context.Context) error {
	if !d.IsDirty() {
		return nil
	}
	if d.repo == nil {
		return errors.New("city repository is nil")
	}
	s, ok := d.buildNextSnapshot()
	if !ok {
		return nil
	}
	d.enqueueLatest(s)
	return nil
}

func (d *CityDC) IsDirty() bool {
	return d.entity != nil && d.entity.Dirty()
}

func (d *CityDC) FlushEvery() time.Duration {
	return d.flushEvery
}

// Close 把最后一次修改入队并等待写完。
func (d *CityDC) Close(ctx context.Context) error {
	if err := d.Flush(ctx); err != nil {
		d.log.Error("city flush on close failed", zap.Error(err))
	}

	d.mu.Lock()
	if !d.closed {
		d.closed = true
		close(d.stop)
	}
	d.mu.Unlock()

	select {
	case <-d.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (d *CityDC) buildNextSnapshot() (*entity.CityPersistSnapshot, bool) {
	d.mu.Lock()
	d.version++
	version := d.version
	d.mu.Unlock()

	s, ok := d.entity.BuildPersistSnapshot(version)
	if !ok {
		return nil, false
	}
	d.entity.ClearDirty()
	return s, true
}

func (d *CityDC) enqueueLatest(s *entity.CityPersistSnapshot) {
	d.mu.Lock()
	if d.closed {
		d.mu.Unlock()
		return
	}
	if d.pending == nil || d.pending.Version < s.Version {
		d.pending = s
	}
	d.mu.Unlock()

	select {
	case d.wake <- struct{}{}:
	default:
	}
}

func (d *CityDC) popPending() *entity.CityPersistSnapshot {
	d.mu.Lock()
	defer d.mu.Unlock()
	s := d.pending
	d.pending = nil
	return s
}

// requeue 写失败放回队列；已有更新版本时丢弃旧的。
func (d *CityDC) requeue(s *entity.CityPersistSnapshot) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.closed {
		return false
	}
	if d.pending == nil || d.pending.Version < s.Version {
		d.pending = s
	}
	return true
}

func (d *CityDC) writerLoop() {
	defer close(d.done)

	for {
		select {
		case <-d.wake:
			d.consumePending()
		case <-d.stop:
			d.consumePending()
			return
		}
	}
}

func (d *CityDC) consumePending() {
	for {
		s := d.popPending()
		if s == nil {
			return
		}
		err := d.repo.Save(context.Background(), s)
		if err == nil {
			continue
		}
		d.log.Error("city snapshot save failed",
			zap.Int("city_id", int(s.CityID)),
			zap.Uint64("version", s.Version),
			zap.Error(err),
		)
		if !d.requeue(s) {
			return
		}
		time.Sleep(retryBackoff)
	}
}
