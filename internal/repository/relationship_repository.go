package repository

import (
	"errors"
	"pai-companion-go/internal/model"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// RelationshipRepository 定义了关系状态的数据操作方法。
type RelationshipRepository interface {
	GetOrCreate(userID, companionID uint) (*model.RelationshipState, error)
	Find(userID, companionID uint) (*model.RelationshipState, error)
	// UpdateLocked 在行锁事务内读取并更新关系行，
	// 保证同一行上的实时轮次与调度扫描不会互相覆盖。
	UpdateLocked(userID, companionID uint, apply func(*model.RelationshipState)) (*model.RelationshipState, error)
	// FindEngagementCandidates 返回满足阶段/亲密度/信任度门槛且
	// 最后互动早于 before 的关系行，按最后互动升序。
	FindEngagementCandidates(minStageRank int, minIntimacy, minTrust float64, before time.Time, limit int) ([]model.RelationshipState, error)
}

type relationshipRepository struct {
	db *gorm.DB
}

// NewRelationshipRepository 创建一个新的 RelationshipRepository 实例。
func NewRelationshipRepository(db *gorm.DB) RelationshipRepository {
	return &relationshipRepository{db: db}
}

// GetOrCreate 取关系行，不存在则按 stranger 初始化。
func (r *relationshipRepository) GetOrCreate(userID, companionID uint) (*model.RelationshipState, error) {
	var state model.RelationshipState
	err := r.db.Where("user_id = ? AND companion_id = ?", userID, companionID).First(&state).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		state = model.RelationshipState{
			UserID:          userID,
			CompanionID:     companionID,
			Stage:           model.StageStranger,
			LastInteraction: time.Now(),
		}
		if err := r.db.Create(&state).Error; err != nil {
			return nil, err
		}
		return &state, nil
	}
	if err != nil {
		return nil, err
	}
	return &state, nil
}

// Find 查找关系行，不存在时返回 gorm.ErrRecordNotFound。
func (r *relationshipRepository) Find(userID, companionID uint) (*model.RelationshipState, error) {
	var state model.RelationshipState
	err := r.db.Where("user_id = ? AND companion_id = ?", userID, companionID).First(&state).Error
	if err != nil {
		return nil, err
	}
	return &state, nil
}

// UpdateLocked 以 SELECT ... FOR UPDATE 锁行后应用 apply 并保存。
func (r *relationshipRepository) UpdateLocked(userID, companionID uint, apply func(*model.RelationshipState)) (*model.RelationshipState, error) {
	var state model.RelationshipState
	err := r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("user_id = ? AND companion_id = ?", userID, companionID).
			First(&state).Error; err != nil {
			return err
		}
		apply(&state)
		return tx.Save(&state).Error
	})
	if err != nil {
		return nil, err
	}
	return &state, nil
}

// FindEngagementCandidates 供调度扫描挑选主动触达候选。
func (r *relationshipRepository) FindEngagementCandidates(minStageRank int, minIntimacy, minTrust float64, before time.Time, limit int) ([]model.RelationshipState, error) {
	// stage 门槛按序号换算成合法阶段集合
	stages := make([]string, 0, 6)
	for _, s := range []string{
		model.StageStranger, model.StageAcquaintance, model.StageFriend,
		model.StageCloseFriend, model.StageRomantic, model.StageIntimate,
	} {
		if model.StageRank(s) >= minStageRank {
			stages = append(stages, s)
		}
	}

	var states []model.RelationshipState
	err := r.db.
		Where("stage IN ?", stages).
		Where("intimacy >= ? AND trust >= ?", minIntimacy, minTrust).
		Where("last_interaction < ?", before).
		Order("last_interaction ASC").
		Limit(limit).
		Find(&states).Error
	return states, err
}
