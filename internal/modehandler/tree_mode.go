package modehandler

import (
	"errors"
	"fmt"

	"github.com/bethropolis/modsed/internal/document"
	"github.com/bethropolis/modsed/internal/input"
	"github.com/bethropolis/modsed/internal/menu"
	"github.com/bethropolis/modsed/internal/schema"
	"github.com/bethropolis/modsed/internal/selection"
	"github.com/bethropolis/modsed/internal/treeview"
)

func (mh *ModeHandler) handleTree(ae input.ActionEvent) bool {
	switch ae.Action {
	case input.ActionNext:
		mh.navigate(mh.tree.Next)
	case input.ActionPrev:
		mh.navigate(mh.tree.Prev)
	case input.ActionParent:
		mh.navigate(mh.tree.Parent)
	case input.ActionChild:
		mh.navigate(mh.tree.FirstChild)
	case input.ActionCycleTab:
		mh.tree.CycleTab()
	case input.ActionCommand:
		mh.openPrompt(":", "", mh.executeCommand)
	case input.ActionUnknown:
		return false
	default:
		sel, ok := mh.requireSelection()
		if !ok {
			return true
		}
		return mh.editSelected(ae.Action, sel)
	}
	return true
}

func (mh *ModeHandler) navigate(step func() bool) {
	if step() {
		mh.session.Select(mh.tree.Selected())
	}
}

func (mh *ModeHandler) requireSelection() (selection.Selection, bool) {
	sel := mh.session.Selection()
	if sel.IsNone() {
		mh.statusBar.SetTemporaryMessage("Select an element first")
		return sel, false
	}
	return sel, true
}

func (mh *ModeHandler) editSelected(action input.Action, sel selection.Selection) bool {
	doc := mh.session.Document
	switch action {
	case input.ActionMoveUp, input.ActionMoveDown:
		move := mh.session.MoveDown
		if action == input.ActionMoveUp {
			move = mh.session.MoveUp
		}
		moved, err := move(sel.Node)
		switch {
		case err != nil:
			mh.statusBar.SetTemporaryError("Move failed: %v", err)
		case !moved:
			mh.statusBar.SetTemporaryMessage("Nothing to swap with")
		default:
			mh.tree.Reorder(doc(), doc().Parent(sel.Node))
			mh.tree.Select(sel.Node)
		}

	case input.ActionDelete:
		if err := mh.session.Remove(sel.Node); err != nil {
			mh.statusBar.SetTemporaryError("Delete failed: %v", err)
			return true
		}
		mh.tree.Remove(doc(), sel.Node)
		mh.session.Select(mh.tree.Selected())

	case input.ActionAddChild:
		mh.openAddChild(sel)

	case input.ActionAddAttribute:
		mh.openAddAttribute(sel)

	case input.ActionRemoveAttribute:
		mh.openRemoveAttribute(sel)

	case input.ActionEdit:
		p, ok := mh.tree.Panel(sel.Node)
		if ok && p.Active == treeview.TabAttributes {
			mh.openEditAttribute(sel)
		} else {
			mh.editText(sel)
		}

	default:
		return false
	}
	return true
}

func (mh *ModeHandler) openAddChild(sel selection.Selection) {
	children := mh.session.Menus().Children()
	if len(children) == 0 {
		mh.statusBar.SetTemporaryMessage("%s takes no child elements", sel.Type)
		return
	}
	items := make([]menu.Item, 0, len(children))
	for _, t := range children {
		items = append(items, menu.Item{Label: t.String(), Detail: t.Tag.Local, Value: t})
	}
	mh.openMenu("Add element", items, func(it menu.Item) error {
		id, err := mh.session.AddChild(sel.Node, it.Value.(*schema.ElementType))
		if err != nil {
			if errors.Is(err, document.ErrMixedContent) {
				return errors.New("element has text, clear it before adding children")
			}
			return err
		}
		mh.tree.Insert(mh.session.Document(), sel.Node, id)
		return nil
	})
}

func (mh *ModeHandler) openAddAttribute(sel selection.Selection) {
	entries := mh.session.Menus().Attributes()
	if len(entries) == 0 {
		mh.statusBar.SetTemporaryMessage("%s declares no attributes", sel.Type)
		return
	}
	if len(mh.session.Menus().Addable()) == 0 {
		mh.statusBar.SetTemporaryMessage("Every attribute of %s is already set", sel.Type)
		return
	}
	items := make([]menu.Item, 0, len(entries))
	for _, e := range entries {
		it := menu.Item{Label: e.Type.String(), Value: e.Type, Disabled: e.Present}
		if e.Present {
			it.Detail = "= " + e.Value
		} else if e.Type.HasDefault() {
			it.Detail = "default " + e.Type.Default
		}
		items = append(items, it)
	}
	mh.openMenu("Add attribute", items, func(it menu.Item) error {
		mh.askAttributeValue(sel, it.Value.(*schema.AttributeType), "")
		return nil
	})
}

func (mh *ModeHandler) openEditAttribute(sel selection.Selection) {
	var items []menu.Item
	for _, e := range mh.session.Menus().Attributes() {
		if e.Present {
			items = append(items, menu.Item{Label: e.Type.String(), Detail: "= " + e.Value, Value: e})
		}
	}
	if len(items) == 0 {
		mh.openAddAttribute(sel)
		return
	}
	mh.openMenu("Edit attribute", items, func(it menu.Item) error {
		e := it.Value.(menu.AttributeEntry)
		mh.askAttributeValue(sel, e.Type, e.Value)
		return nil
	})
}

func (mh *ModeHandler) askAttributeValue(sel selection.Selection, a *schema.AttributeType, current string) {
	set := func(v string) error {
		if err := mh.session.SetAttribute(sel.Node, a, v); err != nil {
			return err
		}
		mh.tree.Refresh(mh.session.Document(), sel.Node)
		return nil
	}
	if a.Field == schema.FieldSelection {
		mh.openMenu(a.String(), valueItems(a.AllowedValues, current), func(it menu.Item) error {
			return set(it.Value.(string))
		})
		return
	}
	mh.openPrompt(a.String()+": ", current, set)
}

func (mh *ModeHandler) openRemoveAttribute(sel selection.Selection) {
	var items []menu.Item
	for _, e := range mh.session.Menus().Attributes() {
		if e.Present {
			items = append(items, menu.Item{Label: e.Type.String(), Detail: "= " + e.Value, Value: e.Type})
		}
	}
	if len(items) == 0 {
		mh.statusBar.SetTemporaryMessage("No attributes to remove")
		return
	}
	mh.openMenu("Remove attribute", items, func(it menu.Item) error {
		if _, err := mh.session.RemoveAttribute(sel.Node, it.Value.(*schema.AttributeType)); err != nil {
			return err
		}
		mh.tree.Refresh(mh.session.Document(), sel.Node)
		return nil
	})
}

func (mh *ModeHandler) editText(sel selection.Selection) {
	n := mh.session.Document().Node(sel.Node)
	if n == nil {
		return
	}
	set := func(v string) error {
		if err := mh.session.SetText(sel.Node, v); err != nil {
			return err
		}
		mh.tree.Refresh(mh.session.Document(), sel.Node)
		return nil
	}
	switch sel.Type.Field {
	case schema.FieldNone:
		mh.statusBar.SetTemporaryMessage("%s has no value", sel.Type)
	case schema.FieldSelection:
		mh.openMenu(sel.Type.String(), valueItems(sel.Type.AllowedValues, n.Text), func(it menu.Item) error {
			return set(it.Value.(string))
		})
	case schema.FieldTextarea:
		mh.openPrompt(sel.Type.String()+" (Alt+Enter breaks the line): ", n.Text, set)
		mh.prompt.Multiline = true
	default:
		mh.openPrompt(sel.Type.String()+": ", n.Text, set)
	}
}

func valueItems(values []string, current string) []menu.Item {
	items := make([]menu.Item, 0, len(values))
	for _, v := range values {
		it := menu.Item{Label: v, Value: v}
		if v == current {
			it.Detail = "current"
		}
		items = append(items, it)
	}
	return items
}

// find selects the first element matching an XPath expression.
func (mh *ModeHandler) find(expr string) error {
	if expr == "" {
		return errors.New("usage: find <xpath>")
	}
	ids, err := selection.Query(mh.session.Document(), mh.session.Prefixes(), expr)
	if err != nil {
		return err
	}
	for i, id := range ids {
		if mh.session.Select(id) {
			mh.tree.Select(id)
			mh.statusBar.SetTemporaryMessage("Match %d of %d", i+1, len(ids))
			return nil
		}
	}
	return fmt.Errorf("no element matches %s", expr)
}
