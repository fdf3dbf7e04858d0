package script

import (
	"fmt"

	lua "github.com/yuin/gopher-lua"
)

// luaScript calls the global function weights(fraction, mood, ids), which
// returns a table of id -> weight.
type luaScript struct {
	name string
	vm   *lua.LState
}

func compileLua(name string, src []byte) (Script, error) {
	vm := lua.NewState()
	if err := vm.DoString(string(src)); err != nil {
		vm.Close()
		return nil, fmt.Errorf("script: load %s: %w", name, err)
	}
	if vm.GetGlobal("weights").Type() != lua.LTFunction {
		vm.Close()
		return nil, fmt.Errorf("script: %s does not define function weights", name)
	}
	return &luaScript{name: name, vm: vm}, nil
}

func (s *luaScript) Weights(fraction float64, mood string, ids []string) (map[string]float64, error) {
	list := s.vm.NewTable()
	for _, id := range ids {
		list.Append(lua.LString(id))
	}

	if err := s.vm.CallByParam(lua.P{
		Fn:      s.vm.GetGlobal("weights"),
		NRet:    1,
		Protect: true,
	}, lua.LNumber(fraction), lua.LString(mood), list); err != nil {
		return nil, fmt.Errorf("script: run %s: %w", s.name, err)
	}
	result := s.vm.Get(-1)
	s.vm.Pop(1)

	tbl, ok := result.(*lua.LTable)
	if !ok {
		return nil, fmt.Errorf("script: %s returned %s, want table", s.name, result.Type())
	}
	raw := map[string]float64{}
	var bad error
	tbl.ForEach(func(k, v lua.LValue) {
		n, ok := v.(lua.LNumber)
		if !ok {
			bad = fmt.Errorf("script: %s: weight for %s is %s", s.name, k.String(), v.Type())
			return
		}
		raw[k.String()] = float64(n)
	})
	if bad != nil {
		return nil, bad
	}
	return normalize(s.name, raw, ids)
}

func (s *luaScript) Close() {
	s.vm.Close()
}
