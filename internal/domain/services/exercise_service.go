package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/kingnahee2-droid/CareWell/internal/domain/models"
	"github.com/kingnahee2-droid/CareWell/internal/error/code"
	"github.com/kingnahee2-droid/CareWell/internal/infrastructure/config"
)

const (
	maxDuration       = 600
	defaultRecordsCap = 100
	maxRecordsCap     = 1000
)

// InterfaceExerciseService 运动记录
type InterfaceExerciseService interface {
	LogExercise(ctx context.Context, user *models.User, input ExerciseInput) (*models.ExerciseRecord, error)
	Today(ctx context.Context, userID uint) (*models.ExerciseRecord, error)
	Records(ctx context.Context, userID uint, query RecordsQuery) ([]models.ExerciseRecord, error)
	WeekSummary(ctx context.Context, userID uint) ([]models.ExerciseRecord, *models.ExerciseSummary, error)
	MonthSummary(ctx context.Context, userID uint) ([]models.ExerciseRecord, *models.ExerciseSummary, error)
	Export(ctx context.Context, userID uint, query RecordsQuery) ([]byte, error)
}

// ExerciseInput 运动记录参数，Date 为空表示今天
type ExerciseInput struct {
	Type       string `json:"type"`
	Duration   int    `json:"duration"`
	Fatigue    int    `json:"fatigue"`
	Difficulty int    `json:"difficulty"`
	Date       string `json:"date"`
}

// RecordsQuery 记录查询条件，日期为 YYYY-MM-DD，可为空
type RecordsQuery struct {
	From  string
	To    string
	Limit int
}

// ExerciseService 运动记录服务
type ExerciseService struct {
	DB       *gorm.DB
	Config   *config.Config
	Notifier InterfaceNotifyService
	Now      Clock
}

// NewExerciseService 创建运动记录服务
func NewExerciseService(db *gorm.DB, cfg *config.Config, notifier InterfaceNotifyService) InterfaceExerciseService {
	return &ExerciseService{
		DB:       db,
		Config:   cfg,
		Notifier: notifier,
		Now:      time.Now,
	}
}

// 1 LogExercise 写入记录，提交后同步通知家属
func (s *ExerciseService) LogExercise(ctx context.Context, user *models.User, input ExerciseInput) (*models.ExerciseRecord, error) {
	input.Type = strings.TrimSpace(input.Type)
	if input.Type == "" ||
		input.Duration < 1 || input.Duration > maxDuration ||
		input.Fatigue < 1 || input.Fatigue > 5 ||
		input.Difficulty < 1 || input.Difficulty > 5 {
		return nil, code.New(code.ErrInvalidExercise)
	}

	date := strings.TrimSpace(input.Date)
	if date == "" {
		date = today(s.Now())
	} else if _, err := time.Parse(models.DateLayout, date); err != nil {
		return nil, code.New(code.ErrInvalidDate)
	}

	record := &models.ExerciseRecord{
		UserID:     user.ID,
		Date:       date,
		Type:       input.Type,
		Duration:   input.Duration,
		Fatigue:    input.Fatigue,
		Difficulty: input.Difficulty,
	}
	if err := s.DB.WithContext(ctx).Create(record).Error; err != nil {
		return nil, dbError(err)
	}

	s.Notifier.ExerciseCompleted(ctx, user, record)
	return record, nil
}

// 2 Today 今天最新的一条记录，没有时返回 nil
func (s *ExerciseService) Today(ctx context.Context, userID uint) (*models.ExerciseRecord, error) {
	var record models.ExerciseRecord
	err := s.DB.WithContext(ctx).
		Where("user_id = ? AND date = ?", userID, today(s.Now())).
		Order("created_at DESC, id DESC").
		First(&record).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, dbError(err)
	}
	return &record, nil
}

// 3 Records 按日期倒序查询记录
func (s *ExerciseService) Records(ctx context.Context, userID uint, query RecordsQuery) ([]models.ExerciseRecord, error) {
	if err := validateRange(query.From, query.To); err != nil {
		return nil, err
	}

	limit := query.Limit
	if limit <= 0 {
		limit = defaultRecordsCap
	}
	if limit > maxRecordsCap {
		limit = maxRecordsCap
	}

	db := s.DB.WithContext(ctx).Where("user_id = ?", userID)
	if query.From != "" {
		db = db.Where("date >= ?", query.From)
	}
	if query.To != "" {
		db = db.Where("date <= ?", query.To)
	}

	var records []models.ExerciseRecord
	if err := db.Order("date DESC, id DESC").Limit(limit).Find(&records).Error; err != nil {
		return nil, dbError(err)
	}
	return records, nil
}

// 4 WeekSummary 截至今天的最近7天
func (s *ExerciseService) WeekSummary(ctx context.Context, userID uint) ([]models.ExerciseRecord, *models.ExerciseSummary, error) {
	now := s.Now()
	to := dateOnly(now)
	return s.rangeSummary(ctx, userID, to.AddDate(0, 0, -6), to)
}

// 5 MonthSummary 本月1号到今天
func (s *ExerciseService) MonthSummary(ctx context.Context, userID uint) ([]models.ExerciseRecord, *models.ExerciseSummary, error) {
	now := s.Now()
	to := dateOnly(now)
	from := time.Date(to.Year(), to.Month(), 1, 0, 0, 0, 0, to.Location())
	return s.rangeSummary(ctx, userID, from, to)
}

// 6 Export 导出 xlsx
func (s *ExerciseService) Export(ctx context.Context, userID uint, query RecordsQuery) ([]byte, error) {
	if query.Limit <= 0 {
		query.Limit = maxRecordsCap
	}
	records, err := s.Records(ctx, userID, query)
	if err != nil {
		return nil, err
	}
	data, err := GenerateExerciseExport(records)
	if err != nil {
		return nil, code.Wrap(code.ErrInternal, err)
	}
	return data, nil
}

func (s *ExerciseService) rangeSummary(ctx context.Context, userID uint, from, to time.Time) ([]models.ExerciseRecord, *models.ExerciseSummary, error) {
	var records []models.ExerciseRecord
	err := s.DB.WithContext(ctx).
		Where("user_id = ? AND date >= ? AND date <= ?", userID, from.Format(models.DateLayout), to.Format(models.DateLayout)).
		Order("date ASC, id ASC").
		Find(&records).Error
	if err != nil {
		return nil, nil, dbError(err)
	}

	summary := Summarize(records, from, to)
	return records, &summary, nil
}

func validateRange(from, to string) error {
	for _, d := range []string{from, to} {
		if d == "" {
			continue
		}
		if _, err := time.Parse(models.DateLayout, d); err != nil {
			return code.New(code.ErrInvalidDate)
		}
	}
	return nil
}

func dateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
