// internal/app/features/entities/views.go
package entities

import (
	"github.com/dalemusser/reliefhub/internal/app/system/formutil"
	"github.com/dalemusser/reliefhub/internal/app/system/paging"
	"github.com/dalemusser/reliefhub/internal/app/system/viewdata"
)

type kindVM struct {
	Singular string
	Plural   string
	Base     string
}

type fieldVM struct {
	Field
	Value string
	Opts  []Option
}

type formData struct {
	formutil.Base
	Kind   kindVM
	Action string
	ID     string // set on edit; echoed as a hidden input
	Fields []fieldVM
	Submit string
}

type listRow struct {
	ID    string
	Cells []string
}

type listData struct {
	viewdata.BaseVM
	Kind      kindVM
	Headers   []string
	Rows      []listRow
	Range     paging.Range
	CanCreate bool
}

type detailRow struct {
	Label string
	Value string
}

type viewData struct {
	viewdata.BaseVM
	Kind      kindVM
	ID        string
	Label     string
	Rows      []detailRow
	CanEdit   bool
	CanDelete bool
}

type deleteData struct {
	viewdata.BaseVM
	Kind  kindVM
	ID    string
	Label string
}

func (k *Kind[T]) vm() kindVM {
	return kindVM{Singular: k.Singular, Plural: k.Plural, Base: k.Base}
}
