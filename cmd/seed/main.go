package main

import (
	"fmt"
	"log"
	"time"

	"github.com/joho/godotenv"
	"github.com/vixenblog/internal/config"
	"github.com/vixenblog/internal/db"
	"github.com/vixenblog/internal/service"
	"golang.org/x/crypto/bcrypt"
)

// 开发环境测试数据生成器
func main() {
	_ = godotenv.Load()

	cfg := config.Load()
	if err := db.Init(cfg.DatabasePath); err != nil {
		log.Fatal("数据库初始化失败:", err)
	}

	fmt.Println("开始生成测试数据...")

	createAdminUser()
	categories := createCategories()
	tags := createTags()
	series := createSeries()
	createPosts(categories, tags, series)

	fmt.Println("测试数据生成完成！")
	fmt.Println("用户: admin (密码: admin123)")
}

func createAdminUser() {
	var count int64
	db.DB.Model(&db.User{}).Count(&count)
	if count > 0 {
		fmt.Println("用户已存在，跳过创建")
		return
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte("admin123"), bcrypt.DefaultCost)
	if err != nil {
		log.Fatal("密码加密失败:", err)
	}
	if err := db.DB.Create(&db.User{
		Username: "admin",
		Password: string(hashed),
		Name:     "管理员",
	}).Error; err != nil {
		log.Fatal("创建用户失败:", err)
	}
	fmt.Println("✅ 管理员用户创建完成")
}

func createCategories() []db.Category {
	var existing []db.Category
	db.DB.Find(&existing)
	if len(existing) > 0 {
		fmt.Println("分类已存在，跳过创建")
		return existing
	}

	names := []string{"技术", "生活", "思考"}
	categories := make([]db.Category, 0, len(names))
	for _, name := range names {
		category := db.Category{Name: name, Slug: service.GenerateSlug(name)}
		if err := db.DB.Create(&category).Error; err != nil {
			log.Fatal("创建分类失败:", err)
		}
		categories = append(categories, category)
	}
	fmt.Println("✅ 测试分类创建完成")
	return categories
}

func createTags() []db.Tag {
	var existing []db.Tag
	db.DB.Find(&existing)
	if len(existing) > 0 {
		fmt.Println("标签已存在，跳过创建")
		return existing
	}

	names := []string{"Go", "数据库", "教程", "项目"}
	tags := make([]db.Tag, 0, len(names))
	for _, name := range names {
		tag := db.Tag{Name: name, Slug: service.GenerateSlug(name)}
		if tag.Slug == "" {
			tag.Slug = fmt.Sprintf("tag-%d", len(tags)+1)
		}
		if err := db.DB.Create(&tag).Error; err != nil {
			log.Fatal("创建标签失败:", err)
		}
		tags = append(tags, tag)
	}
	fmt.Println("✅ 测试标签创建完成")
	return tags
}

func createSeries() *db.Series {
	var existing db.Series
	if err := db.DB.First(&existing).Error; err == nil {
		fmt.Println("系列已存在，跳过创建")
		return &existing
	}

	series := db.Series{
		Name:        "Go 入门教程",
		Slug:        "go-getting-started-tutorial",
		Description: "从零开始学习 Go 语言",
	}
	if err := db.DB.Create(&series).Error; err != nil {
		log.Fatal("创建系列失败:", err)
	}
	fmt.Println("✅ 测试系列创建完成")
	return &series
}

func createPosts(categories []db.Category, tags []db.Tag, series *db.Series) {
	var count int64
	db.DB.Model(&db.Post{}).Count(&count)
	if count > 0 {
		fmt.Println("文章已存在，跳过创建")
		return
	}

	posts := service.NewPostService(db.DB)
	now := time.Now()

	inputs := []service.PostInput{
		{
			Title:     "第一篇已发布文章",
			Content:   "# 概述\n\n这是一篇已发布的测试文章，用于验证前台列表与详情页。",
			Excerpt:   "已发布的测试文章",
			Published: true,
			AuthorID:  1,
		},
		{
			Title:    "还在打磨的草稿",
			Content:  "草稿内容，仅后台可见。",
			AuthorID: 1,
		},
		{
			Title:       "一小时后自动发布",
			Content:     "定时发布的测试文章。",
			Published:   true,
			ScheduledAt: timePtr(now.Add(time.Hour)),
			AuthorID:    1,
		},
	}

	if len(categories) > 0 {
		inputs[0].CategoryID = &categories[0].ID
	}
	if len(tags) > 0 {
		inputs[0].TagIDs = []uint{tags[0].ID}
	}
	if series != nil {
		order := 1
		inputs[0].SeriesID = &series.ID
		inputs[0].SeriesOrder = &order
	}

	for _, input := range inputs {
		if _, err := posts.Create(input); err != nil {
			log.Fatal("创建文章失败:", err)
		}
	}
	fmt.Println("✅ 测试文章创建完成")
}

func timePtr(t time.Time) *time.Time {
	return &t
}
