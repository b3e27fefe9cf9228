package models

// Platform 游戏平台
type Platform string

const (
	PlatformPC          Platform = "PC"
	PlatformPlayStation Platform = "PlayStation"
	PlatformXbox        Platform = "Xbox"
	PlatformSwitch      Platform = "Switch"
)

// Platforms 所有合法平台，顺序用于页面下拉框
var Platforms = []Platform{PlatformPC, PlatformPlayStation, PlatformXbox, PlatformSwitch}

func (p Platform) Valid() bool {
	switch p {
	case PlatformPC, PlatformPlayStation, PlatformXbox, PlatformSwitch:
		return true
	}
	return false
}

// Region 服务器区域
type Region string

const (
	RegionNA   Region = "NA"
	RegionEU   Region = "EU"
	RegionASIA Region = "ASIA"
	RegionOCE  Region = "OCE"
	RegionSA   Region = "SA"
)

var Regions = []Region{RegionNA, RegionEU, RegionASIA, RegionOCE, RegionSA}

func (r Region) Valid() bool {
	switch r {
	case RegionNA, RegionEU, RegionASIA, RegionOCE, RegionSA:
		return true
	}
	return false
}

// GroupStatus 队伍状态
// OPEN 与 FULL 由成员数推导，其余状态由外部流程设置
type GroupStatus string

const (
	GroupStatusOpen       GroupStatus = "OPEN"
	GroupStatusFull       GroupStatus = "FULL"
	GroupStatusInProgress GroupStatus = "IN_PROGRESS"
	GroupStatusCompleted  GroupStatus = "COMPLETED"
	GroupStatusCancelled  GroupStatus = "CANCELLED"
)

var GroupStatuses = []GroupStatus{
	GroupStatusOpen, GroupStatusFull, GroupStatusInProgress, GroupStatusCompleted, GroupStatusCancelled,
}

func (s GroupStatus) Valid() bool {
	switch s {
	case GroupStatusOpen, GroupStatusFull, GroupStatusInProgress, GroupStatusCompleted, GroupStatusCancelled:
		return true
	}
	return false
}

// MemberRole 成员角色
type MemberRole string

const (
	RoleOwner     MemberRole = "OWNER"
	RoleModerator MemberRole = "MODERATOR"
	RoleMember    MemberRole = "MEMBER"
)

func (r MemberRole) Valid() bool {
	switch r {
	case RoleOwner, RoleModerator, RoleMember:
		return true
	}
	return false
}
