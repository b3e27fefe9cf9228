package repositories

import (
	"errors"
	"strings"

	"gorm.io/gorm"
)

// translateError 把 gorm 错误映射为仓储层错误，其余原样返回
func translateError(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return ErrNotFound
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return ErrDuplicate
	}
	return err
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// likePattern 构建包含匹配，转义用户输入中的通配符
func likePattern(s string) string {
	return "%" + likeEscaper.Replace(s) + "%"
}
