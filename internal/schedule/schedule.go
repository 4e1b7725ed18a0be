package schedule

import (
	"log"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/vixenblog/internal/service"
)

// Manager 托管进程内的定时任务，目前只有定时发布扫描。
type Manager struct {
	engine *cron.Cron
	posts  *service.PostService
	spec   string
}

// NewManager 构造 Manager。spec 使用 cron 表达式或 @every 语法。
func NewManager(posts *service.PostService, spec string) *Manager {
	return &Manager{
		engine: cron.New(),
		posts:  posts,
		spec:   spec,
	}
}

// Register 注册定时任务，启动前先跑一次扫描补上停机期间到期的文章。
func (m *Manager) Register() error {
	if _, err := m.engine.AddFunc(m.spec, m.runSweep); err != nil {
		return err
	}

	m.runSweep()
	return nil
}

// Start 启动调度器。
func (m *Manager) Start() {
	m.engine.Start()
	log.Printf("publish scheduler started (%s)", m.spec)
}

// Stop 停止调度器并等待正在执行的任务完成。
func (m *Manager) Stop() {
	ctx := m.engine.Stop()
	<-ctx.Done()
	log.Println("publish scheduler stopped")
}

func (m *Manager) runSweep() {
	result, err := m.posts.PublishDue(time.Now())
	if err != nil {
		log.Printf("publish sweep failed: %v", err)
		return
	}
	for _, post := range result.Posts {
		log.Printf("published scheduled post %q (%s)", post.Title, post.Slug)
	}
}
