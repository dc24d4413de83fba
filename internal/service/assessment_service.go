package service

import (
	"context"
	"fmt"
	"math"
	"time"

	"arkiv_quests_backend/internal/model"
	"arkiv_quests_backend/pkg/logger"

	"go.uber.org/zap"
)

// ResultStore 结果记录的追加与查询
type ResultStore interface {
	AppendResult(ctx context.Context, res *model.AssessmentResult) (*model.LedgerRecord, error)
	ListByWalletAndQuest(ctx context.Context, wallet, questID string) ([]model.StoredResult, error)
}

// ProgressReconciler 答题历史的归并视图
type ProgressReconciler interface {
	Reconcile(ctx context.Context, wallet, questID string) map[string]model.ProgressRecord
}

// Notifier 结果产生后的站内通知，尽力而为
type Notifier interface {
	Notify(ctx context.Context, wallet, kind, title, body string) error
}

type AssessmentService struct {
	Quests     QuestStore
	Reconciler ProgressReconciler
	Results    ResultStore
	Evidence   EvidenceRecorder
	Notifier   Notifier
}

func NewAssessmentService(quests QuestStore, reconciler ProgressReconciler, results ResultStore, evidence EvidenceRecorder, notifier Notifier) *AssessmentService {
	return &AssessmentService{
		Quests:     quests,
		Reconciler: reconciler,
		Results:    results,
		Evidence:   evidence,
		Notifier:   notifier,
	}
}

// ScoreAssessment 按归并后的进度视图计算整卷得分。未作答的题不贡献
// 任何统计也不报错。TotalPoints 取自测验定义而非重算：满分是定义的
// 属性，得分才是本次作答的属性。
func ScoreAssessment(quest *model.Quest, progress map[string]model.ProgressRecord) *model.AssessmentResult {
	result := &model.AssessmentResult{
		QuestID:     quest.QuestID,
		TotalPoints: quest.Metadata.TotalPoints,
		Sections:    make([]model.SectionScore, 0, len(quest.Sections)),
	}

	for _, section := range quest.Sections {
		score := model.SectionScore{
			SectionID:      section.ID,
			PointsPossible: section.Points,
			QuestionCount:  len(section.Questions),
		}
		for _, q := range section.Questions {
			entry, ok := progress[section.ID+":"+q.ID]
			if !ok {
				continue
			}
			score.QuestionsAnswered++
			score.TimeSpent += entry.TimeSpent
			if entry.Correct {
				score.PointsEarned += q.Points
			}
		}
		result.TotalScore += score.PointsEarned
		result.Sections = append(result.Sections, score)
	}

	if result.TotalPoints > 0 {
		result.Percentage = int(math.Round(float64(result.TotalScore) / float64(result.TotalPoints) * 100))
	}
	// 及格线是分数阈值（含边界），不是百分比
	result.Passed = result.TotalScore >= quest.Metadata.PassingScore
	return result
}

type CompleteResponse struct {
	Key    string                  `json:"key"`
	TxHash string                  `json:"txHash,omitempty"`
	Result *model.AssessmentResult `json:"result"`
}

// Complete 结算一次测验：归并进度 → 计分 → 落账。通过时追加第二条
// 携带认证块的记录（同实体键，读取端取最新）。只有主结果写入的失败
// 会向上传播，旁路的证据和通知写入失败只记日志。
func (s *AssessmentService) Complete(ctx context.Context, wallet, questID string, startedAt time.Time) (*CompleteResponse, error) {
	quest, err := s.Quests.CurrentByQuestID(ctx, questID)
	if err != nil {
		return nil, err
	}

	progress := s.Reconciler.Reconcile(ctx, wallet, questID)

	result := ScoreAssessment(quest, progress)
	result.Wallet = wallet
	result.StartedAt = startedAt
	result.CompletedAt = time.Now()
	result.AttemptNumber, err = s.nextAttemptNumber(ctx, wallet, questID)
	if err != nil {
		return nil, err
	}

	rec, err := s.Results.AppendResult(ctx, result)
	if err != nil {
		return nil, err
	}

	txHash := ""
	if ev := s.recordEvidence(ctx, wallet, questID, "assessment_completed", rec.EntityKey); ev != nil {
		txHash = ev.TxHash
	}

	if result.Passed {
		certified := *result
		certified.Certification = &model.Certification{
			Issued:        true,
			CertificateID: certificateID(questID, wallet, result.CompletedAt),
			IssuedAt:      result.CompletedAt,
			VerifyRef:     txHash,
		}
		if _, err := s.Results.AppendResult(ctx, &certified); err != nil {
			// 认证记录追加失败：结果本身已落账，下次读取仍是有效的
			// 未认证结果，这里不回滚也不向上抛
			logger.Log.Error("Certification record append failed",
				zap.String("wallet", wallet),
				zap.String("questId", questID),
				zap.Error(err))
		} else {
			result = &certified
			s.recordEvidence(ctx, wallet, questID, "certificate_issued", certified.Certification.CertificateID)
			s.notify(ctx, wallet, model.NotificationCertIssued,
				"恭喜通过测验",
				fmt.Sprintf("你已通过测验 %s，证书编号 %s", quest.Title, certified.Certification.CertificateID))
		}
	}

	return &CompleteResponse{
		Key:    rec.EntityKey,
		TxHash: txHash,
		Result: result,
	}, nil
}

// GetResult 最近一条结果记录；通过的尝试里就是带认证块的那条。
// 没有结果时返回 (nil, nil)，调用方按空态处理。
func (s *AssessmentService) GetResult(ctx context.Context, wallet, questID string) (*model.AssessmentResult, error) {
	stored, err := s.Results.ListByWalletAndQuest(ctx, wallet, questID)
	if err != nil {
		return nil, err
	}
	if len(stored) == 0 {
		return nil, nil
	}
	return &stored[0].AssessmentResult, nil
}

// nextAttemptNumber 全量扫描既有结果计数。认证记录与主记录成对出现，
// 计数时跳过带认证块的副本，保证每次尝试恰好 +1。
// 简单优先于效率，当前规模可接受。
func (s *AssessmentService) nextAttemptNumber(ctx context.Context, wallet, questID string) (int, error) {
	stored, err := s.Results.ListByWalletAndQuest(ctx, wallet, questID)
	if err != nil {
		return 0, err
	}
	count := 0
	for _, r := range stored {
		if r.Certification == nil {
			count++
		}
	}
	return count + 1, nil
}

// certificateID 由 (测验, 钱包前缀, 日期) 确定性合成，同一天重复结算
// 得到同一个证书编号
func certificateID(questID, wallet string, issuedAt time.Time) string {
	prefix := wallet
	if len(prefix) > 8 {
		prefix = prefix[:8]
	}
	return fmt.Sprintf("CERT-%s-%s-%s", questID, prefix, issuedAt.Format("20060102"))
}

func (s *AssessmentService) recordEvidence(ctx context.Context, wallet, questID, action, refKey string) *model.EvidenceRecord {
	if s.Evidence == nil {
		return nil
	}
	ev, err := s.Evidence.Record(ctx, wallet, questID, action, refKey)
	if err != nil {
		logger.Log.Warn("Evidence write failed",
			zap.String("action", action),
			zap.Error(err))
		return nil
	}
	return ev
}

func (s *AssessmentService) notify(ctx context.Context, wallet, kind, title, body string) {
	if s.Notifier == nil {
		return
	}
	if err := s.Notifier.Notify(ctx, wallet, kind, title, body); err != nil {
		logger.Log.Warn("Notification write failed", zap.Error(err))
	}
}
