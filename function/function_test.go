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

package function

import (
	"reflect"
	"testing"

	"github.com/hellodb/hellodb/column"
	"github.com/hellodb/hellodb/coltype"
)

func TestArithmeticDispatch(t *testing.T) {
	rt, err := ResultType(Add, coltype.Int, coltype.Int)
	if err != nil || rt != coltype.Int {
		t.Fatalf("ResultType(Add, Int, Int) = %v, %v", rt, err)
	}
	f, err := Build(Add, coltype.Int, coltype.Int)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	a := column.NewIntStorage([]int64{1, 2, 3})
	b := column.NewIntStorage([]int64{10, 20, 30})
	out := column.NewIntStorage(make([]int64, 3))
	if err := f.Apply([]column.Storage{a, b}, out); err != nil {
		t.Fatalf("Apply: %v", err)
	}
	want := []int64{11, 22, 33}
	if !reflect.DeepEqual(out.RawInt64(), want) {
		t.Errorf("got %v, want %v", out.RawInt64(), want)
	}
}

func TestMixedTypeArithmeticRejected(t *testing.T) {
	if _, err := ResultType(Add, coltype.Int, coltype.Float); err == nil {
		t.Fatal("expected error for Int+Float")
	}
	if _, err := Build(Add, coltype.Int, coltype.Float); err == nil {
		t.Fatal("expected error for Int+Float")
	}
}

func TestStringComparison(t *testing.T) {
	f, err := Build(Lt, coltype.String, coltype.String)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	a := column.NewStringStorage([]string{"apple", "zebra"})
	b := column.NewStringStorage([]string{"banana", "apple"})
	out := column.NewIntStorage(make([]int64, 2))
	if err := f.Apply([]column.Storage{a, b}, out); err != nil {
		t.Fatalf("Apply: %v", err)
	}
	want := []int64{1, 0}
	if !reflect.DeepEqual(out.RawInt64(), want) {
		t.Errorf("got %v, want %v", out.RawInt64(), want)
	}
}

func TestBooleanOps(t *testing.T) {
	and, _ := Build(And, coltype.Int, coltype.Int)
	a := column.NewIntStorage([]int64{1, 1, 0, 0})
	b := column.NewIntStorage([]int64{1, 0, 1, 0})
	out := column.NewIntStorage(make([]int64, 4))
	if err := and.Apply([]column.Storage{a, b}, out); err != nil {
		t.Fatalf("Apply: %v", err)
	}
	if want := []int64{1, 0, 0, 0}; !reflect.DeepEqual(out.RawInt64(), want) {
		t.Errorf("AND: got %v, want %v", out.RawInt64(), want)
	}

	not, _ := Build(Not, coltype.Int)
	outNot := column.NewIntStorage(make([]int64, 4))
	if err := not.Apply([]column.Storage{a}, outNot); err != nil {
		t.Fatalf("Apply: %v", err)
	}
	if want := []int64{0, 0, 1, 1}; !reflect.DeepEqual(outNot.RawInt64(), want) {
		t.Errorf("NOT: got %v, want %v", outNot.RawInt64(), want)
	}
}

func TestDisallowedCombo(t *testing.T) {
	if _, err := ResultType(And, coltype.String, coltype.String); err == nil {
		t.Fatal("expected error for AND on strings")
	}
}
