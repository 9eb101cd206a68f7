package ingestion

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"order-momentum-lab/internal/domain"
)

// ErrSchemaMismatch is returned when an input relation is missing a required
// column or carries a value that cannot be parsed into the declared type.
var ErrSchemaMismatch = errors.New("input relation does not match expected schema")

// csvTable reads one header-mapped CSV relation. Column positions are resolved
// from the header row, so files may reorder columns or carry extras.
type csvTable struct {
	name   string
	reader *csv.Reader
	index  map[string]int
	line   int
}

func newCSVTable(name string, r io.Reader, required ...string) (*csvTable, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("%s: no header row: %w", name, ErrSchemaMismatch)
	}

	index := make(map[string]int, len(header))
	for i, column := range header {
		index[strings.TrimSpace(column)] = i
	}
	for _, column := range required {
		if _, ok := index[column]; !ok {
			return nil, fmt.Errorf("%s: missing required column %q: %w", name, column, ErrSchemaMismatch)
		}
	}

	return &csvTable{name: name, reader: reader, index: index, line: 1}, nil
}

// next returns the following record, or ok=false once the relation is exhausted.
func (t *csvTable) next() (record []string, ok bool, err error) {
	record, err = t.reader.Read()
	if err == io.EOF {
		return nil, false, nil
	}
	t.line++
	if err != nil {
		return nil, false, fmt.Errorf("%s line %d: %v: %w", t.name, t.line, err, ErrSchemaMismatch)
	}
	return record, true, nil
}

func (t *csvTable) fieldErr(column, raw string) error {
	return fmt.Errorf("%s line %d: column %q: invalid value %q: %w", t.name, t.line, column, raw, ErrSchemaMismatch)
}

func (t *csvTable) stringField(record []string, column string) (string, error) {
	i, ok := t.index[column]
	if !ok || i >= len(record) {
		return "", t.fieldErr(column, "")
	}
	return strings.TrimSpace(record[i]), nil
}

func (t *csvTable) intField(record []string, column string) (int64, error) {
	raw, err := t.stringField(record, column)
	if err != nil {
		return 0, err
	}
	v, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, t.fieldErr(column, raw)
	}
	return v, nil
}

// optionalFloatField maps the empty string to nil rather than an error; the
// dataset encodes SQL NULL as an empty cell.
func (t *csvTable) optionalFloatField(record []string, column string) (*float64, error) {
	raw, err := t.stringField(record, column)
	if err != nil {
		return nil, err
	}
	if raw == "" {
		return nil, nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return nil, t.fieldErr(column, raw)
	}
	return &v, nil
}

func (t *csvTable) boolField(record []string, column string) (bool, error) {
	raw, err := t.stringField(record, column)
	if err != nil {
		return false, err
	}
	switch raw {
	case "0":
		return false, nil
	case "1":
		return true, nil
	}
	return false, t.fieldErr(column, raw)
}

// Column names below follow the published grocery dataset layout.

func decodeOrders(name string, r io.Reader) ([]*domain.Order, error) {
	table, err := newCSVTable(name, r,
		"order_id", "user_id", "eval_set", "order_number",
		"order_dow", "order_hour_of_day", "days_since_prior_order")
	if err != nil {
		return nil, err
	}

	var orders []*domain.Order
	for {
		record, ok, err := table.next()
		if err != nil {
			return nil, err
		}
		if !ok {
			return orders, nil
		}

		orderID, err := table.intField(record, "order_id")
		if err != nil {
			return nil, err
		}
		userID, err := table.intField(record, "user_id")
		if err != nil {
			return nil, err
		}
		evalSet, err := table.stringField(record, "eval_set")
		if err != nil {
			return nil, err
		}
		orderNumber, err := table.intField(record, "order_number")
		if err != nil {
			return nil, err
		}
		dow, err := table.intField(record, "order_dow")
		if err != nil {
			return nil, err
		}
		hour, err := table.intField(record, "order_hour_of_day")
		if err != nil {
			return nil, err
		}
		daysSincePrior, err := table.optionalFloatField(record, "days_since_prior_order")
		if err != nil {
			return nil, err
		}

		orders = append(orders, &domain.Order{
			OrderID:        orderID,
			UserID:         userID,
			EvalSet:        domain.EvalSet(evalSet),
			OrderNumber:    int(orderNumber),
			DayOfWeek:      int(dow),
			HourOfDay:      int(hour),
			DaysSincePrior: daysSincePrior,
		})
	}
}

func decodeLineItems(name string, r io.Reader) ([]*domain.LineItem, error) {
	table, err := newCSVTable(name, r,
		"order_id", "product_id", "add_to_cart_order", "reordered")
	if err != nil {
		return nil, err
	}

	var items []*domain.LineItem
	for {
		record, ok, err := table.next()
		if err != nil {
			return nil, err
		}
		if !ok {
			return items, nil
		}

		orderID, err := table.intField(record, "order_id")
		if err != nil {
			return nil, err
		}
		productID, err := table.intField(record, "product_id")
		if err != nil {
			return nil, err
		}
		cartPosition, err := table.intField(record, "add_to_cart_order")
		if err != nil {
			return nil, err
		}
		reordered, err := table.boolField(record, "reordered")
		if err != nil {
			return nil, err
		}

		items = append(items, &domain.LineItem{
			OrderID:      orderID,
			ProductID:    productID,
			CartPosition: int(cartPosition),
			Reordered:    reordered,
		})
	}
}

func decodeProducts(name string, r io.Reader) ([]*domain.Product, error) {
	table, err := newCSVTable(name, r,
		"product_id", "product_name", "aisle_id", "department_id")
	if err != nil {
		return nil, err
	}

	var products []*domain.Product
	for {
		record, ok, err := table.next()
		if err != nil {
			return nil, err
		}
		if !ok {
			return products, nil
		}

		productID, err := table.intField(record, "product_id")
		if err != nil {
			return nil, err
		}
		productName, err := table.stringField(record, "product_name")
		if err != nil {
			return nil, err
		}
		aisleID, err := table.intField(record, "aisle_id")
		if err != nil {
			return nil, err
		}
		departmentID, err := table.intField(record, "department_id")
		if err != nil {
			return nil, err
		}

		products = append(products, &domain.Product{
			ProductID:    productID,
			Name:         productName,
			AisleID:      aisleID,
			DepartmentID: departmentID,
		})
	}
}

func decodeAisles(name string, r io.Reader) ([]*domain.Aisle, error) {
	table, err := newCSVTable(name, r, "aisle_id", "aisle")
	if err != nil {
		return nil, err
	}

	var aisles []*domain.Aisle
	for {
		record, ok, err := table.next()
		if err != nil {
			return nil, err
		}
		if !ok {
			return aisles, nil
		}

		aisleID, err := table.intField(record, "aisle_id")
		if err != nil {
			return nil, err
		}
		aisleName, err := table.stringField(record, "aisle")
		if err != nil {
			return nil, err
		}

		aisles = append(aisles, &domain.Aisle{AisleID: aisleID, Name: aisleName})
	}
}

func decodeDepartments(name string, r io.Reader) ([]*domain.Department, error) {
	table, err := newCSVTable(name, r, "department_id", "department")
	if err != nil {
		return nil, err
	}

	var departments []*domain.Department
	for {
		record, ok, err := table.next()
		if err != nil {
			return nil, err
		}
		if !ok {
			return departments, nil
		}

		departmentID, err := table.intField(record, "department_id")
		if err != nil {
			return nil, err
		}
		departmentName, err := table.stringField(record, "department")
		if err != nil {
			return nil, err
		}

		departments = append(departments, &domain.Department{
			DepartmentID: departmentID,
			Name:         departmentName,
		})
	}
}
