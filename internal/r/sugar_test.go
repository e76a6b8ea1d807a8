package r

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abreit/rethinkdb/internal/term"
)

func TestSugar(t *testing.T) {
	fn := func() *Term { return Fun1(VarID(1), VarID(1)) }
	fnWire := `[69,[[2,[1]],[10,[1]]]]`

	tests := []struct {
		name     string
		build    func() *Term
		expected string
	}{
		{"add", func() *Term { return Expr(1).Add(2, 3) }, `[24,[1,2,3]]`},
		{"sub", func() *Term { return Expr(1).Sub(2) }, `[25,[1,2]]`},
		{"mul", func() *Term { return Expr(1).Mul(2) }, `[26,[1,2]]`},
		{"div", func() *Term { return Expr(1).Div(2) }, `[27,[1,2]]`},
		{"mod", func() *Term { return Expr(1).Mod(2) }, `[28,[1,2]]`},
		{"eq", func() *Term { return Expr(1).Eq(2) }, `[17,[1,2]]`},
		{"ne", func() *Term { return Expr(1).Ne(2) }, `[18,[1,2]]`},
		{"lt", func() *Term { return Expr(1).Lt(2) }, `[19,[1,2]]`},
		{"le", func() *Term { return Expr(1).Le(2) }, `[20,[1,2]]`},
		{"gt", func() *Term { return Expr(1).Gt(2) }, `[21,[1,2]]`},
		{"ge", func() *Term { return Expr(1).Ge(2) }, `[22,[1,2]]`},
		{"and", func() *Term { return Boolean(true).And(false) }, `[67,[true,false]]`},
		{"or", func() *Term { return Boolean(true).Or(false) }, `[66,[true,false]]`},
		{"not", func() *Term { return Boolean(true).Not() }, `[23,[true]]`},
		{"field", func() *Term { return Row().Field("age") }, `[31,[[13,[]],"age"]]`},
		{"has fields", func() *Term { return Row().HasFields("a", "b") }, `[32,[[13,[]],"a","b"]]`},
		{"pluck", func() *Term { return Table("u").Pluck("a", "b") }, `[33,[[15,["u"]],"a","b"]]`},
		{"without", func() *Term { return Table("u").Without("a") }, `[34,[[15,["u"]],"a"]]`},
		{"merge", func() *Term { return Row().Merge(Object(OptArg("a", 1))) }, `[35,[[13,[]],[3,[],{"a":1}]]]`},
		{"nth", func() *Term { return Array(1, 2).Nth(0) }, `[45,[[2,[1,2]],0]]`},
		{"count", func() *Term { return Array(1, 2).Count() }, `[43,[[2,[1,2]]]]`},
		{"distinct", func() *Term { return Array(1, 1).Distinct() }, `[42,[[2,[1,1]]]]`},
		{"order by", func() *Term { return Table("u").OrderBy("name") }, `[41,[[15,["u"]],"name"]]`},
		{"map", func() *Term { return Array(1).Map(fn()) }, `[38,[[2,[1]],` + fnWire + `]]`},
		{"filter", func() *Term { return Table("u").Filter(fn(), OptArg("default", true)) }, `[39,[[15,["u"]],` + fnWire + `],{"default":true}]`},
		{"default", func() *Term { return Row().Field("a").Default(0) }, `[92,[[31,[[13,[]],"a"]],0]]`},
		{"db table get", func() *Term { return DB("test").Table("users").Get("bob") }, `[16,[[15,[[14,["test"]],"users"]],"bob"]]`},
		{"do", func() *Term { return Expr(5).Do(fn()) }, `[64,[` + fnWire + `,5]]`},
		{"invoke", func() *Term { return fn().Invoke(5) }, `[64,[` + fnWire + `,5]]`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			root, err := Catch(tt.build)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, wire(t, root))
		})
	}
}

func TestSugar_ChainConsumesEachStep(t *testing.T) {
	a := Array(1, 2, 3)
	m := a.Map(Fun1(VarID(1), VarID(1).Ref().Mul(2)))
	c := m.Count()

	assert.True(t, a.Consumed())
	assert.True(t, m.Consumed())
	assert.Equal(t, term.KindCount, c.Kind())
}
