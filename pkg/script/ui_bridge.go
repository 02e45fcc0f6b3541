package script

import lua "github.com/yuin/gopher-lua"

// installUI publishes the `UI` global, binding each Host method twice: once
// under its plain name (sync) and once with an "Async" suffix (async). Both
// forms call straight through to the same Go method — the embedded engine
// has no event loop to suspend against, so there is no behavioural
// difference between them. Both are published anyway so that scripts
// written in the async idiom (`UI.refreshAsync()`) run unmodified, per
// DESIGN.md's pkg/script notes.
func (sc *ScriptContext) installUI() {
	ui := sc.L.NewTable()

	bind := func(name string, fn lua.LGFunction) {
		sc.L.SetField(ui, name, sc.L.NewFunction(fn))
		sc.L.SetField(ui, name+"Async", sc.L.NewFunction(fn))
	}

	bind("refresh", sc.uiRefresh)
	bind("navigate", sc.uiNavigate)
	bind("navigateFresh", sc.uiNavigateFresh)
	bind("sendPage", sc.uiSendPage)
	bind("back", sc.uiBack)
	bind("close", sc.uiClose)
	bind("dispose", sc.uiDispose)
	bind("clearKeyboard", sc.uiClearKeyboard)
	bind("toast", sc.uiToast)
	bind("alert", sc.uiAlert)
	bind("status", sc.uiStatus)
	bind("nextPage", sc.uiNextPage)
	bind("prevPage", sc.uiPrevPage)
	bind("goToPage", sc.uiGoToPage)

	bind("getPageCount", func(L *lua.LState) int {
		L.Push(lua.LNumber(sc.host.GetPageCount()))
		return 1
	})
	bind("getCurrentPage", func(L *lua.LState) int {
		L.Push(lua.LNumber(sc.host.GetCurrentPage()))
		return 1
	})

	sc.L.SetGlobal("UI", ui)
}

func (sc *ScriptContext) raiseIfErr(L *lua.LState, err error) {
	if err != nil {
		sc.ReportError(err)
	}
}

func (sc *ScriptContext) uiRefresh(L *lua.LState) int {
	sc.raiseIfErr(L, sc.host.Refresh())
	return 0
}

func optProps(L *lua.LState, idx int) map[string]any {
	v := L.Get(idx)
	if v == lua.LNil {
		return nil
	}
	if tbl, ok := v.(*lua.LTable); ok {
		if m, ok := FromLua(tbl).(map[string]any); ok {
			return m
		}
	}
	return nil
}

func (sc *ScriptContext) uiNavigate(L *lua.LState) int {
	pageID := L.CheckString(1)
	subPage := L.OptBool(2, false)
	props := optProps(L, 3)
	sc.navigated = true
	sc.raiseIfErr(L, sc.host.Navigate(pageID, subPage, props))
	return 0
}

func (sc *ScriptContext) uiNavigateFresh(L *lua.LState) int {
	pageID := L.CheckString(1)
	subPage := L.OptBool(2, false)
	props := optProps(L, 3)
	sc.navigated = true
	sc.raiseIfErr(L, sc.host.NavigateFresh(pageID, subPage, props))
	return 0
}

func (sc *ScriptContext) uiSendPage(L *lua.LState) int {
	sc.raiseIfErr(L, sc.host.SendPage(L.CheckString(1)))
	return 0
}

func (sc *ScriptContext) uiBack(L *lua.LState) int {
	sc.navigated = true
	sc.raiseIfErr(L, sc.host.Back())
	return 0
}

func (sc *ScriptContext) uiClose(L *lua.LState) int {
	sc.raiseIfErr(L, sc.host.Close())
	return 0
}

func (sc *ScriptContext) uiDispose(L *lua.LState) int {
	sc.raiseIfErr(L, sc.host.Dispose())
	return 0
}

func (sc *ScriptContext) uiClearKeyboard(L *lua.LState) int {
	sc.raiseIfErr(L, sc.host.ClearKeyboard())
	return 0
}

func (sc *ScriptContext) uiToast(L *lua.LState) int {
	sc.raiseIfErr(L, sc.host.Toast(L.CheckString(1)))
	return 0
}

func (sc *ScriptContext) uiAlert(L *lua.LState) int {
	sc.raiseIfErr(L, sc.host.Alert(L.CheckString(1)))
	return 0
}

func (sc *ScriptContext) uiStatus(L *lua.LState) int {
	sc.raiseIfErr(L, sc.host.Status(L.CheckString(1)))
	return 0
}

func (sc *ScriptContext) uiNextPage(L *lua.LState) int {
	sc.raiseIfErr(L, sc.host.NextPage())
	return 0
}

func (sc *ScriptContext) uiPrevPage(L *lua.LState) int {
	sc.raiseIfErr(L, sc.host.PrevPage())
	return 0
}

func (sc *ScriptContext) uiGoToPage(L *lua.LState) int {
	idx := L.CheckInt(1)
	sc.raiseIfErr(L, sc.host.GoToPage(idx))
	return 0
}

// installUser publishes the `User` global, wrapping UserHost.
func (sc *ScriptContext) installUser() {
	if sc.user == nil {
		return
	}
	user := sc.L.NewTable()
	sc.L.SetField(user, "send", sc.L.NewFunction(func(L *lua.LState) int {
		sc.raiseIfErr(L, sc.user.Send(L.CheckString(1)))
		return 0
	}))
	sc.L.SetField(user, "edit", sc.L.NewFunction(func(L *lua.LState) int {
		sc.raiseIfErr(L, sc.user.Edit(L.CheckString(1)))
		return 0
	}))
	sc.L.SetField(user, "delete", sc.L.NewFunction(func(L *lua.LState) int {
		sc.raiseIfErr(L, sc.user.Delete())
		return 0
	}))
	sc.L.SetField(user, "localize", sc.L.NewFunction(func(L *lua.LState) int {
		L.Push(lua.LString(sc.user.Localize(L.CheckString(1))))
		return 1
	}))
	sc.L.SetField(user, "chatId", sc.L.NewFunction(func(L *lua.LState) int {
		L.Push(lua.LNumber(sc.user.ChatID()))
		return 1
	}))
	sc.L.SetGlobal("User", user)
}

// installBase publishes the `Base` global: read-only page metadata.
func (sc *ScriptContext) installBase() {
	if sc.base == nil {
		return
	}
	base := sc.L.NewTable()
	sc.L.SetField(base, "pageId", lua.LString(sc.base.PageID()))
	sc.L.SetField(base, "title", lua.LString(sc.base.Title()))
	sc.L.SetField(base, "parent", lua.LString(sc.base.Parent()))
	sc.L.SetField(base, "pageDirectory", lua.LString(sc.base.PageDirectory()))
	sc.L.SetGlobal("Base", base)
}
