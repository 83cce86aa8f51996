// Copyright (C) 2022 Sneller, Inc.
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU Affero General Public License for more details.
//
// You should have received a copy of the GNU Affero General Public License
// along with this program.  If not, see <http://www.gnu.org/licenses/>.

// Package ast declares the typed SQL AST the planner lowers. It is a
// pure data contract: nothing in this package parses SQL text. The
// node kinds mirror the subset of a real SQL parser's AST that the
// planner supports, and every Expr knows how to render itself back to
// source-like text via String, since the planner memoizes compiled
// columns by an expression's stringified form rather than by
// structural identity.
package ast

import (
	"fmt"
	"strings"
)

// Expr is any SQL scalar expression node.
type Expr interface {
	fmt.Stringer
	exprNode()
}

// Identifier names a column reference, e.g. "id".
type Identifier struct {
	Value string
}

func (Identifier) exprNode() {}
func (i Identifier) String() string { return i.Value }

// BinaryOp applies a binary operator, e.g. "id + age" or "age > 30".
// Op is one of the operator texts function.Op declares ("+", "-",
// "*", "/", "=", "!=", "<", "<=", ">", ">=", "AND", "OR").
type BinaryOp struct {
	Left  Expr
	Op    string
	Right Expr
}

func (BinaryOp) exprNode() {}
func (b BinaryOp) String() string {
	return fmt.Sprintf("%s %s %s", b.Left, b.Op, b.Right)
}

// UnaryOp applies a unary operator, e.g. "NOT active". Op is one of
// function.Op's unary texts ("NOT").
type UnaryOp struct {
	Op   string
	Expr Expr
}

func (UnaryOp) exprNode() {}
func (u UnaryOp) String() string {
	return fmt.Sprintf("%s %s", u.Op, u.Expr)
}

// Nested is a parenthesized sub-expression, e.g. "(id + age)". It
// stringifies to the inner expression's own text, matching the
// original parser's Display impl, so "(id + age)" and "id + age"
// memoize to the same compiled column.
type Nested struct {
	Expr Expr
}

func (Nested) exprNode() {}
func (n Nested) String() string { return n.Expr.String() }

// Value is a literal: Number, SingleQuotedString or
// DoubleQuotedString.
type Value interface {
	Expr
	valueNode()
}

// Number is a numeric literal in its original source text (so the
// caller decides whether it parses as Int or Float).
type Number struct {
	Raw string
}

func (Number) exprNode()  {}
func (Number) valueNode() {}
func (n Number) String() string { return n.Raw }

// SingleQuotedString is a 'single quoted' string literal.
type SingleQuotedString struct {
	Value string
}

func (SingleQuotedString) exprNode()  {}
func (SingleQuotedString) valueNode() {}
func (s SingleQuotedString) String() string { return "'" + s.Value + "'" }

// DoubleQuotedString is a "double quoted" string literal.
type DoubleQuotedString struct {
	Value string
}

func (DoubleQuotedString) exprNode()  {}
func (DoubleQuotedString) valueNode() {}
func (s DoubleQuotedString) String() string { return `"` + s.Value + `"` }

// SelectItem is one entry of a SELECT list: SelectItemExpr or
// SelectItemWildcard.
type SelectItem interface {
	selectItemNode()
}

// SelectItemExpr projects a single unnamed expression.
type SelectItemExpr struct {
	Expr Expr
}

func (SelectItemExpr) selectItemNode() {}

// SelectItemWildcard is "*": every column of the table, in schema
// order.
type SelectItemWildcard struct{}

func (SelectItemWildcard) selectItemNode() {}

// TableFactorTable names the table a query selects from. Name is the
// first component of the (possibly dotted) identifier the parser
// produced; per spec.md §6 only the first component is used.
type TableFactorTable struct {
	Name string
}

// Select is the body of a query: the source table, the projected
// columns and an optional WHERE predicate.
type Select struct {
	From       TableFactorTable
	Projection []SelectItem
	Selection  Expr // nil if there is no WHERE clause
}

// OrderByExpr is one ORDER BY key.
type OrderByExpr struct {
	Expr Expr
	Asc  bool
}

// Query is a full statement: a SELECT body plus ORDER BY/LIMIT/OFFSET
// clauses.
type Query struct {
	Select  Select
	OrderBy []OrderByExpr
	Limit   *int64
	Offset  *int64
}

// SelectItemString renders a SelectItem the way the original expression or "*"
// would appear in source text; used only for diagnostics, not for
// memoization (SelectItemWildcard has no single backing expression).
func SelectItemString(item SelectItem) string {
	switch it := item.(type) {
	case SelectItemWildcard:
		return "*"
	case SelectItemExpr:
		return it.Expr.String()
	default:
		return fmt.Sprintf("%T", item)
	}
}

// String renders q the way the source query would read, for
// diagnostics and logging.
func (q Query) String() string {
	var b strings.Builder
	b.WriteString("SELECT ")
	for i, item := range q.Select.Projection {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(SelectItemString(item))
	}
	fmt.Fprintf(&b, " FROM %s", q.Select.From.Name)
	if q.Select.Selection != nil {
		fmt.Fprintf(&b, " WHERE %s", q.Select.Selection)
	}
	if len(q.OrderBy) > 0 {
		b.WriteString(" ORDER BY ")
		for i, ob := range q.OrderBy {
			if i > 0 {
				b.WriteString(", ")
			}
			b.WriteString(ob.Expr.String())
			if !ob.Asc {
				b.WriteString(" DESC")
			}
		}
	}
	if q.Limit != nil {
		fmt.Fprintf(&b, " LIMIT %d", *q.Limit)
	}
	if q.Offset != nil {
		fmt.Fprintf(&b, " OFFSET %d", *q.Offset)
	}
	return b.String()
}
