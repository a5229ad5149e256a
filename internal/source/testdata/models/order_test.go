package models

//entitysql:entity
type Ignored struct {
	ID int64 `sql:"id,pk"`
}
