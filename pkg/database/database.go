package database

import (
	"ai_readiness_backend/internal/config"
	"ai_readiness_backend/internal/model"
	"fmt"
	"log"

	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func InitDB(cfg *config.DatabaseConfig, migrate bool) (*gorm.DB, error) {
	dsn := fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?charset=%s&parseTime=%t&loc=Local",
		cfg.User,
		cfg.Password,
		cfg.Host,
		cfg.Port,
		cfg.DBName,
		cfg.Charset,
		cfg.ParseTime,
	)

	db, err := gorm.Open(mysql.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Info),
	})

	if err != nil {
		return nil, err
	}

	log.Println("Database connection established")

	if migrate {
		if err := Migrate(db); err != nil {
			return nil, err
		}
		log.Println("Database migration completed")

		if err := seedCatalog(db); err != nil {
			return nil, err
		}
	}

	return db, nil
}

// Migrate runs schema migration for all persisted entities.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&model.Role{},
		&model.RoleVersion{},
		&model.RoleQuestion{},
		&model.Question{},
		&model.Assessment{},
		&model.Answer{},
		&model.Plan{},
		&model.Report{},
		&model.TelemetryEvent{},
	)
}

// seedCatalog inserts a starter catalog on an empty database: one role
// per supported profile, each on version 1 with two questions per pillar.
func seedCatalog(db *gorm.DB) error {
	var count int64
	if err := db.Model(&model.Role{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	questions := defaultQuestions()
	for i := range questions {
		if err := db.Create(&questions[i]).Error; err != nil {
			return err
		}
	}

	roles := []model.Role{
		{Name: "Backend Java Developer", Description: "Server-side development with Java and Spring", Category: "engineering", Active: true},
		{Name: "Frontend Developer", Description: "Web UI development", Category: "engineering", Active: true},
		{Name: "Data Engineer", Description: "Data pipelines and analytics platforms", Category: "data", Active: true},
		{Name: "QA Engineer", Description: "Test automation and quality", Category: "engineering", Active: true},
	}
	for i := range roles {
		if err := db.Create(&roles[i]).Error; err != nil {
			return err
		}
		version := model.RoleVersion{
			RoleID:        roles[i].ID,
			VersionNumber: 1,
			Active:        true,
		}
		if err := db.Create(&version).Error; err != nil {
			return err
		}
		for order, q := range questions {
			link := model.RoleQuestion{
				RoleVersionID: version.ID,
				QuestionID:    q.ID,
				Weight:        1.0,
				Order:         order + 1,
			}
			if err := db.Create(&link).Error; err != nil {
				return err
			}
		}
	}

	log.Println("Seeded starter catalog")
	return nil
}

func defaultQuestions() []model.Question {
	return []model.Question{
		{Text: "How confident are you with the core frameworks of your stack?", Type: model.QuestionLikert, Pillar: model.PillarTech, Active: true},
		{Text: "How often do you write automated tests for your code?", Type: model.QuestionLikert, Pillar: model.PillarTech, Active: true},
		{Text: "How often do you use AI assistants while coding?", Type: model.QuestionLikert, Pillar: model.PillarAI, Active: true},
		{Text: "Have you integrated a model API into a project?", Type: model.QuestionMultiple, Pillar: model.PillarAI, Options: []byte(`["Yes","No"]`), Active: true},
		{Text: "How comfortable are you presenting technical decisions?", Type: model.QuestionLikert, Pillar: model.PillarCommunication, Active: true},
		{Text: "How regularly do you write technical documentation?", Type: model.QuestionLikert, Pillar: model.PillarCommunication, Active: true},
		{Text: "How complete is your public portfolio?", Type: model.QuestionLikert, Pillar: model.PillarPortfolio, Active: true},
		{Text: "Describe your most relevant project.", Type: model.QuestionText, Pillar: model.PillarPortfolio, Active: true},
	}
}
