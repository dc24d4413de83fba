package service

import (
	"context"
	"fmt"
	"time"

	"arkiv_quests_backend/internal/model"
	"arkiv_quests_backend/internal/util"
	"arkiv_quests_backend/pkg/logger"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

// QuestLedger 测验定义的账本读写
type QuestLedger interface {
	AppendQuest(ctx context.Context, quest *model.Quest) (*model.LedgerRecord, error)
	CurrentByQuestID(ctx context.Context, questID string) (*model.Quest, error)
	ListVersions(ctx context.Context, questID string) ([]model.Quest, error)
	ListCurrent(ctx context.Context) ([]model.Quest, error)
}

// QuestService 测验定义的创建校验、版本化发布和当前版本缓存。
// 定义校验只在创建时执行，判分路径假定定义合法。
type QuestService struct {
	Repo     QuestLedger
	Redis    *redis.Client
	CacheTTL time.Duration
}

func NewQuestService(repo QuestLedger, rdb *redis.Client, cacheTTL time.Duration) *QuestService {
	return &QuestService{Repo: repo, Redis: rdb, CacheTTL: cacheTTL}
}

type QuestRequest struct {
	QuestID     string               `json:"questId" binding:"required"`
	Title       string               `json:"title" binding:"required"`
	Description string               `json:"description"`
	Language    string               `json:"language"`
	Level       string               `json:"level"`
	Sections    []model.QuestSection `json:"sections" binding:"required"`
	Metadata    model.QuestMetadata  `json:"metadata"`
}

// CreateQuest 发布一个新版本。校验失败返回消息列表，任何校验错误
// 都不允许进入判分路径。
func (s *QuestService) CreateQuest(ctx context.Context, wallet string, req QuestRequest) (*model.Quest, error) {
	quest := &model.Quest{
		QuestID:     req.QuestID,
		Title:       req.Title,
		Description: req.Description,
		Language:    req.Language,
		Level:       req.Level,
		Active:      true,
		Sections:    req.Sections,
		Metadata:    req.Metadata,
		CreatedBy:   wallet,
	}

	fillMetadata(quest)
	if problems := validateQuest(quest); len(problems) > 0 {
		return nil, &util.ValidationError{Problems: problems}
	}

	rec, err := s.Repo.AppendQuest(ctx, quest)
	if err != nil {
		return nil, err
	}
	quest.CreatedAt = rec.CreatedAt

	s.invalidateCache(ctx, quest.QuestID)
	return quest, nil
}

// Unpublish 追加一条 inactive 版本；当前版本解析会回退到更早的
// active 版本或报告不存在
func (s *QuestService) Unpublish(ctx context.Context, wallet, questID string) error {
	quest, err := s.Repo.CurrentByQuestID(ctx, questID)
	if err != nil {
		return err
	}
	if quest.CreatedBy != wallet {
		return util.ErrPermissionDenied
	}

	retired := *quest
	retired.Active = false
	if _, err := s.Repo.AppendQuest(ctx, &retired); err != nil {
		return err
	}
	s.invalidateCache(ctx, questID)
	return nil
}

// CurrentByQuestID 带 redis 缓存的当前版本读取；缓存故障静默降级到账本
func (s *QuestService) CurrentByQuestID(ctx context.Context, questID string) (*model.Quest, error) {
	cacheKey := "quest:current:" + questID

	if s.Redis != nil {
		cached, err := s.Redis.Get(ctx, cacheKey).Bytes()
		if err == nil {
			var quest model.Quest
			if util.DecodePayload(cached, &quest) {
				return &quest, nil
			}
		}
	}

	quest, err := s.Repo.CurrentByQuestID(ctx, questID)
	if err != nil {
		return nil, err
	}

	if s.Redis != nil {
		if err := s.Redis.Set(ctx, cacheKey, []byte(util.MustMarshal(quest)), s.CacheTTL).Err(); err != nil {
			logger.Log.Debug("Quest cache set failed", zap.Error(err))
		}
	}
	return quest, nil
}

func (s *QuestService) ListQuests(ctx context.Context) ([]model.Quest, error) {
	return s.Repo.ListCurrent(ctx)
}

func (s *QuestService) ListVersions(ctx context.Context, questID string) ([]model.Quest, error) {
	return s.Repo.ListVersions(ctx, questID)
}

func (s *QuestService) invalidateCache(ctx context.Context, questID string) {
	if s.Redis == nil {
		return
	}
	if err := s.Redis.Del(ctx, "quest:current:"+questID).Err(); err != nil {
		logger.Log.Debug("Quest cache invalidation failed", zap.Error(err))
	}
}

// fillMetadata 题目数与总分可以省略，由定义推导；显式给出的值
// 留给校验去核对
func fillMetadata(quest *model.Quest) {
	questions := 0
	points := 0
	for _, section := range quest.Sections {
		questions += len(section.Questions)
		for _, q := range section.Questions {
			points += q.Points
		}
	}
	if quest.Metadata.TotalQuestions == 0 {
		quest.Metadata.TotalQuestions = questions
	}
	if quest.Metadata.TotalPoints == 0 {
		quest.Metadata.TotalPoints = points
	}
}

func validateQuest(quest *model.Quest) []string {
	var problems []string

	if len(quest.Sections) == 0 {
		problems = append(problems, "quest must have at least one section")
	}

	totalQuestions := 0
	totalPoints := 0
	for _, section := range quest.Sections {
		if section.ID == "" {
			problems = append(problems, "section id is required")
		}
		sectionPoints := 0
		for _, q := range section.Questions {
			totalQuestions++
			sectionPoints += q.Points
			problems = append(problems, validateQuestion(section.ID, q)...)
		}
		if section.Points != sectionPoints {
			problems = append(problems, fmt.Sprintf("section %s: points %d do not match question sum %d", section.ID, section.Points, sectionPoints))
		}
		totalPoints += sectionPoints
	}

	if quest.Metadata.TotalQuestions != totalQuestions {
		problems = append(problems, fmt.Sprintf("metadata totalQuestions %d does not match definition %d", quest.Metadata.TotalQuestions, totalQuestions))
	}
	if quest.Metadata.TotalPoints != totalPoints {
		problems = append(problems, fmt.Sprintf("metadata totalPoints %d does not match definition %d", quest.Metadata.TotalPoints, totalPoints))
	}
	if quest.Metadata.PassingScore <= 0 || quest.Metadata.PassingScore > totalPoints {
		problems = append(problems, fmt.Sprintf("passingScore %d must be within (0, %d]", quest.Metadata.PassingScore, totalPoints))
	}

	return problems
}

func validateQuestion(sectionID string, q model.QuizQuestion) []string {
	var problems []string
	where := fmt.Sprintf("section %s question %s", sectionID, q.ID)

	if q.ID == "" {
		problems = append(problems, fmt.Sprintf("section %s: question id is required", sectionID))
	}
	if q.Points <= 0 {
		problems = append(problems, where+": points must be positive")
	}

	switch q.Type {
	case model.QuestionMultipleChoice:
		if len(q.Options) < 2 {
			problems = append(problems, where+": multiple choice needs at least two options")
		}
		correct := 0
		for _, opt := range q.Options {
			if opt.Correct {
				correct++
			}
		}
		if correct != 1 {
			problems = append(problems, fmt.Sprintf("%s: multiple choice must flag exactly one correct option, got %d", where, correct))
		}
	case model.QuestionTrueFalse:
		if v := q.Answer.Single(); v != "true" && v != "false" {
			problems = append(problems, where+`: true/false answer must be literal "true" or "false"`)
		}
	case model.QuestionFillBlank:
		if q.Answer.Single() == "" {
			problems = append(problems, where+": fill-blank answer is required")
		} else if len(q.WordBank) > 0 && !contains(q.WordBank, q.Answer.Single()) {
			problems = append(problems, where+": fill-blank answer must appear in the word bank")
		}
	case model.QuestionMatching:
		if len(q.Pairs) == 0 {
			problems = append(problems, where+": matching needs at least one pair")
		}
		if len(q.Answer.Values) != len(q.Pairs) {
			problems = append(problems, fmt.Sprintf("%s: matching answer count %d does not match pair count %d", where, len(q.Answer.Values), len(q.Pairs)))
		}
	case model.QuestionSentenceOrdering:
		if len(q.Sentences) < 2 {
			problems = append(problems, where+": sentence ordering needs at least two sentences")
		}
		if !equalUnordered(q.Answer.Values, q.Sentences) {
			problems = append(problems, where+": ordering answer must be a permutation of the sentence list")
		}
	default:
		// 未知题型在这里硬性拒绝，而不是等判分时静默判错
		problems = append(problems, fmt.Sprintf("%s: unknown question type %q", where, q.Type))
	}

	return problems
}

func contains(list []string, v string) bool {
	for _, item := range list {
		if item == v {
			return true
		}
	}
	return false
}
