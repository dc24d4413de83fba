package service

import (
	"context"
	"sort"
	"time"

	"arkiv_quests_backend/internal/model"
	"arkiv_quests_backend/internal/util"
	"arkiv_quests_backend/pkg/logger"

	"go.uber.org/zap"
)

// QuestStore 当前版本测验定义的读取端
type QuestStore interface {
	CurrentByQuestID(ctx context.Context, questID string) (*model.Quest, error)
}

// ProgressStore 答题记录的追加与查询
type ProgressStore interface {
	AppendSubmission(ctx context.Context, p model.ProgressRecord) (*model.LedgerRecord, error)
	ListByWalletAndQuest(ctx context.Context, wallet, questID string) ([]model.ProgressRecord, error)
}

// EvidenceRecorder 主写入旁路的观测记录，尽力而为
type EvidenceRecorder interface {
	Record(ctx context.Context, wallet, questID, action, refKey string) (*model.EvidenceRecord, error)
}

type ProgressService struct {
	Quests   QuestStore
	Progress ProgressStore
	Evidence EvidenceRecorder
}

func NewProgressService(quests QuestStore, progress ProgressStore, evidence EvidenceRecorder) *ProgressService {
	return &ProgressService{Quests: quests, Progress: progress, Evidence: evidence}
}

type SubmitAnswerRequest struct {
	QuestID    string            `json:"questId" binding:"required"`
	SectionID  string            `json:"sectionId" binding:"required"`
	QuestionID string            `json:"questionId" binding:"required"`
	Answer     model.AnswerValue `json:"answer"`
	TimeSpent  int               `json:"timeSpent"`
}

// SubmitAnswer 校验单题答案并追加一条进度记录。并发重做不加锁：
// 同题多条记录由读取端 most-recent-wins 归并解决。
func (s *ProgressService) SubmitAnswer(ctx context.Context, wallet string, req SubmitAnswerRequest) (*ValidationResult, error) {
	quest, err := s.Quests.CurrentByQuestID(ctx, req.QuestID)
	if err != nil {
		return nil, err
	}

	question := quest.FindQuestion(req.SectionID, req.QuestionID)
	if question == nil {
		return nil, util.ErrQuestionNotFound
	}

	result := ValidateAnswer(*question, req.Answer)

	rec, err := s.Progress.AppendSubmission(ctx, model.ProgressRecord{
		Wallet:      wallet,
		QuestID:     req.QuestID,
		SectionID:   req.SectionID,
		QuestionID:  req.QuestionID,
		Answer:      req.Answer,
		Correct:     result.Correct,
		Score:       result.Score,
		TimeSpent:   req.TimeSpent,
		SubmittedAt: time.Now(),
	})
	if err != nil {
		return nil, err
	}

	s.recordEvidence(ctx, wallet, req.QuestID, "answer_submitted", rec.EntityKey)

	return &result, nil
}

// Reconcile 把追加式答题历史归并成每题一条的当前视图：
// 按提交时间降序，每个 sectionId:questionId 只保留最先遇到的记录。
// 读取失败返回空 map —— 调用方对"还没答题"和"读取失败"不作区分，
// 这是可用性优先的取舍。
func (s *ProgressService) Reconcile(ctx context.Context, wallet, questID string) map[string]model.ProgressRecord {
	records, err := s.Progress.ListByWalletAndQuest(ctx, wallet, questID)
	if err != nil {
		logger.Log.Warn("Progress fetch failed, treating as empty",
			zap.String("wallet", wallet),
			zap.String("questId", questID),
			zap.Error(err))
		return map[string]model.ProgressRecord{}
	}

	sorted := make([]model.ProgressRecord, len(records))
	copy(sorted, records)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].SubmittedAt.After(sorted[j].SubmittedAt)
	})

	current := make(map[string]model.ProgressRecord)
	for _, rec := range sorted {
		key := rec.Key()
		if _, seen := current[key]; !seen {
			current[key] = rec
		}
	}
	return current
}

func (s *ProgressService) recordEvidence(ctx context.Context, wallet, questID, action, refKey string) {
	if s.Evidence == nil {
		return
	}
	if _, err := s.Evidence.Record(ctx, wallet, questID, action, refKey); err != nil {
		// 观测记录失败只记日志，绝不影响主流程
		logger.Log.Warn("Evidence write failed",
			zap.String("action", action),
			zap.Error(err))
	}
}
