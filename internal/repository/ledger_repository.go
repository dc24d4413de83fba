package repository

import (
	"context"
	"sort"
	"strings"

	"arkiv_quests_backend/internal/config"
	"arkiv_quests_backend/internal/model"
	"arkiv_quests_backend/internal/util"
	"arkiv_quests_backend/pkg/monitoring"

	"gorm.io/gorm"
)

// LedgerRepository 追加式账本的唯一写入口。Append / QueryByAttributes /
// ResolveCurrent 对所有实体类型统一使用，没有按类型的特例。
type LedgerRepository struct {
	DB     *gorm.DB
	policy util.RetryPolicy
}

func NewLedgerRepository(db *gorm.DB, cfg *config.LedgerConfig) *LedgerRepository {
	return &LedgerRepository{
		DB: db,
		policy: util.RetryPolicy{
			MaxAttempts: cfg.MaxWriteAttempts,
			BaseDelay:   cfg.RetryBaseDelay,
			NonceDelay:  cfg.NonceRetryDelay,
			Classify:    ClassifyWriteError,
		},
	}
}

// RecordQuery 账本的属性查询；零值字段不参与过滤
type RecordQuery struct {
	Type       string
	Wallet     string
	QuestID    string
	SectionID  string
	QuestionID string
	EntityKey  string
	Limit      int
}

// Append 追加一条记录，所有账本写入都经过统一的重试策略
func (r *LedgerRepository) Append(ctx context.Context, rec *model.LedgerRecord) error {
	err := util.WithRetry(ctx, r.policy, func() error {
		return r.DB.WithContext(ctx).Create(rec).Error
	})

	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	monitoring.LedgerAppendCounter.WithLabelValues(rec.Type, outcome).Inc()
	return err
}

// QueryByAttributes 按属性取记录，最新的在前
func (r *LedgerRepository) QueryByAttributes(ctx context.Context, q RecordQuery) ([]model.LedgerRecord, error) {
	var records []model.LedgerRecord

	query := r.DB.WithContext(ctx).Model(&model.LedgerRecord{})
	if q.Type != "" {
		query = query.Where("type = ?", q.Type)
	}
	if q.Wallet != "" {
		query = query.Where("wallet = ?", q.Wallet)
	}
	if q.QuestID != "" {
		query = query.Where("quest_id = ?", q.QuestID)
	}
	if q.SectionID != "" {
		query = query.Where("section_id = ?", q.SectionID)
	}
	if q.QuestionID != "" {
		query = query.Where("question_id = ?", q.QuestionID)
	}
	if q.EntityKey != "" {
		query = query.Where("entity_key = ?", q.EntityKey)
	}
	if q.Limit > 0 {
		query = query.Limit(q.Limit)
	}

	err := query.Order("created_at desc, seq desc").Find(&records).Error
	return records, err
}

func (r *LedgerRepository) FindByID(ctx context.Context, id string) (*model.LedgerRecord, error) {
	var rec model.LedgerRecord
	err := r.DB.WithContext(ctx).Where("id = ?", id).First(&rec).Error
	if err != nil {
		return nil, err
	}
	return &rec, nil
}

// ResolveCurrent 每个实体键只保留最新一条记录（most recent wins）。
// 这是全系统软可变实体的统一归并规则：账本没有原地更新原语，
// 当前状态永远由读取端按时间戳解析。
func ResolveCurrent(records []model.LedgerRecord) map[string]model.LedgerRecord {
	sorted := make([]model.LedgerRecord, len(records))
	copy(sorted, records)
	SortByCreatedDesc(sorted)

	current := make(map[string]model.LedgerRecord)
	for _, rec := range sorted {
		if _, seen := current[rec.EntityKey]; !seen {
			current[rec.EntityKey] = rec
		}
	}
	return current
}

// CurrentRecords ResolveCurrent 的列表形态：归并出每个实体的当前记录后
// 按时间戳降序返回，列表接口用它保证跨请求的稳定顺序
func CurrentRecords(records []model.LedgerRecord) []model.LedgerRecord {
	current := ResolveCurrent(records)
	out := make([]model.LedgerRecord, 0, len(current))
	for _, rec := range current {
		out = append(out, rec)
	}
	SortByCreatedDesc(out)
	return out
}

// SortByCreatedDesc 按时间戳降序。created_at 列是毫秒精度，
// 同一请求内的连续追加会并列，此时按插入序号降序决出最新；
// 序号缺失时退回记录ID保证排序稳定。
func SortByCreatedDesc(records []model.LedgerRecord) {
	sort.SliceStable(records, func(i, j int) bool {
		if !records[i].CreatedAt.Equal(records[j].CreatedAt) {
			return records[i].CreatedAt.After(records[j].CreatedAt)
		}
		if records[i].Seq != records[j].Seq {
			return records[i].Seq > records[j].Seq
		}
		return records[i].ID > records[j].ID
	})
}

// ClassifyWriteError 把存储层错误映射到重试分类。字符串匹配是
// 传输层妥协，底层支持错误码后应替换。
func ClassifyWriteError(err error) util.ErrorClass {
	if err == nil {
		return util.ErrFatal
	}
	msg := strings.ToLower(err.Error())

	switch {
	case strings.Contains(msg, "rate limit"),
		strings.Contains(msg, "too many requests"),
		strings.Contains(msg, "too many connections"),
		strings.Contains(msg, "deadlock"),
		strings.Contains(msg, "try again"):
		return util.ErrRateLimited
	case strings.Contains(msg, "nonce"),
		strings.Contains(msg, "replacement transaction"):
		return util.ErrNonceConflict
	default:
		return util.ErrFatal
	}
}
