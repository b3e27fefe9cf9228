package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/Gopher0727/SquadUp/internal/models"
)

// 随机的加入/离开序列之后，成员数不超过上限，且 FULL 当且仅当满员
func TestMembershipStateMachine(t *testing.T) {
	const players = 8

	rapid.Check(t, func(rt *rapid.T) {
		f := newFixture(t, players)
		ctx := context.Background()
		maxMembers := rapid.IntRange(MinGroupMembers, 6).Draw(rt, "maxMembers")
		g := f.createGroup(t, "2", f.input("destiny-2", maxMembers))

		// 模型：当前成员集合（不含队长）
		joined := make(map[string]bool)

		rt.Repeat(map[string]func(*rapid.T){
			"join": func(rt *rapid.T) {
				user := playerID(rapid.IntRange(0, players-1).Draw(rt, "user"))
				_, err := f.svc.JoinGroup(ctx, g.ID, user)

				switch {
				case joined[user]:
					if len(joined)+1 >= maxMembers {
						require.Equal(rt, ErrGroupFull, err)
					} else {
						require.Equal(rt, ErrAlreadyMember, err)
					}
				case len(joined)+1 >= maxMembers:
					require.Equal(rt, ErrGroupFull, err)
				default:
					require.NoError(rt, err)
					joined[user] = true
				}
			},
			"leave": func(rt *rapid.T) {
				user := playerID(rapid.IntRange(0, players-1).Draw(rt, "user"))
				_, err := f.svc.LeaveGroup(ctx, g.ID, user)

				if joined[user] {
					require.NoError(rt, err)
					delete(joined, user)
				} else {
					require.Equal(rt, ErrNotMember, err)
				}
			},
			"ownerLeave": func(rt *rapid.T) {
				_, err := f.svc.LeaveGroup(ctx, g.ID, "2")
				require.Equal(rt, ErrOwnerCannotLeave, err)
			},
			"": func(rt *rapid.T) {
				got, err := f.svc.FindGroupByID(ctx, g.ID, "2")
				require.NoError(rt, err)

				count := got.Count.Members
				require.Equal(rt, len(joined)+1, count)
				require.LessOrEqual(rt, count, maxMembers)
				require.Equal(rt, count == maxMembers, got.Status == models.GroupStatusFull)

				owners := 0
				for _, m := range got.Members {
					if m.Role == models.RoleOwner {
						owners++
						require.Equal(rt, "2", m.UserID)
					}
				}
				require.Equal(rt, 1, owners)
			},
		})
	})
}
