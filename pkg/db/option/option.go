package option

import (
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type QueryOption interface {
	Apply(db *gorm.DB) *gorm.DB
}

type optionFunc func(db *gorm.DB) *gorm.DB

func (f optionFunc) Apply(db *gorm.DB) *gorm.DB { return f(db) }

type Operator string

const (
	EQ  Operator = "eq"
	GTE Operator = "gte"
	LTE Operator = "lte"
	LT  Operator = "lt"
)

type Condition struct {
	Field    string
	Operator Operator
	Value    any
}

// ApplyOperator builds a WHERE predicate with a quoted column name.
func ApplyOperator(cond Condition) QueryOption {
	return optionFunc(func(db *gorm.DB) *gorm.DB {
		column := clause.Column{Name: cond.Field}
		switch cond.Operator {
		case GTE:
			return db.Where(clause.Gte{Column: column, Value: cond.Value})
		case LTE:
			return db.Where(clause.Lte{Column: column, Value: cond.Value})
		case LT:
			return db.Where(clause.Lt{Column: column, Value: cond.Value})
		default:
			return db.Where(clause.Eq{Column: column, Value: cond.Value})
		}
	})
}

// WithOrder orders by column; desc flips the direction.
func WithOrder(field string, desc bool) QueryOption {
	return optionFunc(func(db *gorm.DB) *gorm.DB {
		return db.Order(clause.OrderByColumn{Column: clause.Column{Name: field}, Desc: desc})
	})
}

func WithLimit(limit int) QueryOption {
	return optionFunc(func(db *gorm.DB) *gorm.DB {
		if limit <= 0 {
			return db
		}
		return db.Limit(limit)
	})
}

func WithOffset(offset int) QueryOption {
	return optionFunc(func(db *gorm.DB) *gorm.DB {
		if offset <= 0 {
			return db
		}
		return db.Offset(offset)
	})
}
