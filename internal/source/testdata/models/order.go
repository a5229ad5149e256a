package models

type (
	//entitysql:entity comment="customer orders"
	Order struct {
		OrderID int64 `sql:",pk"`
		LineNo  int32 `sql:"line_no,pk"`
		Total   float64
	}
)
