package services

import "github.com/Gopher0727/SquadUp/internal/models"

// nextStatus 成员数变化后重新推导状态
// 只有 OPEN 与 FULL 随人数切换，其余状态由外部流程决定，保持不变
func nextStatus(current models.GroupStatus, count, maxMembers int) models.GroupStatus {
	switch current {
	case models.GroupStatusOpen, models.GroupStatusFull:
		if count >= maxMembers {
			return models.GroupStatusFull
		}
		return models.GroupStatusOpen
	}
	return current
}

// checkJoinable 按顺序校验：状态、容量
func checkJoinable(g *models.Group, count int) error {
	switch g.Status {
	case models.GroupStatusOpen, models.GroupStatusFull:
	default:
		return ErrGroupNotAccepting
	}
	if g.Status == models.GroupStatusFull || count >= g.MaxMembers {
		return ErrGroupFull
	}
	return nil
}
