package source

import "github.com/JonMunkholm/datagrid/internal/grid"

// DefaultColumns returns the column set for the generated user rows.
func DefaultColumns() []grid.Column {
	return []grid.Column{
		{Field: "id", HeaderName: "ID", Width: 80, Type: grid.TypeNumber},
		{Field: "name", HeaderName: "Name", Width: 150, Sortable: grid.Bool(true), Filterable: grid.Bool(true)},
		{Field: "email", HeaderName: "Email", Width: 200, Sortable: grid.Bool(true), Filterable: grid.Bool(true)},
		{Field: "role", HeaderName: "Role", Width: 120, Sortable: grid.Bool(true), Filterable: grid.Bool(true),
			Type: grid.TypeSelect, ValueOptions: Roles},
		{Field: "department", HeaderName: "Department", Width: 130, Sortable: grid.Bool(true), Filterable: grid.Bool(true)},
		{Field: "salary", HeaderName: "Salary", Width: 120, Type: grid.TypeNumber, Sortable: grid.Bool(true), Filterable: grid.Bool(true)},
		{Field: "joinDate", HeaderName: "Join Date", Width: 120, Type: grid.TypeDate, Sortable: grid.Bool(true), Filterable: grid.Bool(true)},
		{Field: "status", HeaderName: "Status", Width: 100, Sortable: grid.Bool(true), Filterable: grid.Bool(true)},
		{Field: "actions", HeaderName: "Actions", Width: 100, Type: grid.TypeActions,
			Sortable: grid.Bool(false), Filterable: grid.Bool(false)},
	}
}
