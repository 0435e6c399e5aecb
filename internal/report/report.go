package report

import (
	"fmt"
	"io"

	"prolens/internal/model"

	"github.com/tealeg/xlsx"
)

// ContentType is the MIME type of the generated workbooks.
const ContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

const timeLayout = "2006-01-02 15:04:05"

// WriteProducts writes an inventory workbook with one row per product.
func WriteProducts(w io.Writer, products []model.Product) error {
	file := xlsx.NewFile()
	sheet, err := file.AddSheet("Products")
	if err != nil {
		return fmt.Errorf("failed to create products sheet: %w", err)
	}

	addHeader(sheet, "ID", "Name", "Brand", "Category", "RentalPrice", "Stock", "Thumbnail", "CreatedAt", "UpdatedAt")

	for _, p := range products {
		row := sheet.AddRow()
		row.AddCell().SetInt64(p.ID)
		row.AddCell().SetString(p.Name)
		row.AddCell().SetString(p.Brand)
		row.AddCell().SetString(string(p.Category))
		row.AddCell().SetString(p.RentalPrice.StringFixed(2))
		row.AddCell().SetInt(p.Stock)
		row.AddCell().SetString(p.Thumbnail)
		row.AddCell().SetString(p.CreatedAt.Format(timeLayout))
		row.AddCell().SetString(p.UpdatedAt.Format(timeLayout))
	}

	if err := file.Write(w); err != nil {
		return fmt.Errorf("failed to write products workbook: %w", err)
	}
	return nil
}

// WriteOrders writes an orders workbook. A second sheet lists every snapshot line.
func WriteOrders(w io.Writer, orders []model.Order) error {
	file := xlsx.NewFile()
	sheet, err := file.AddSheet("Orders")
	if err != nil {
		return fmt.Errorf("failed to create orders sheet: %w", err)
	}
	lines, err := file.AddSheet("OrderItems")
	if err != nil {
		return fmt.Errorf("failed to create order items sheet: %w", err)
	}

	addHeader(sheet, "OrderID", "UserID", "Email", "FullName", "Phone", "Address", "City",
		"Status", "PaymentStatus", "PaymentMethod", "TotalAmount", "CreatedAt")
	addHeader(lines, "OrderID", "ProductID", "Name", "Quantity", "Price", "Total")

	for _, o := range orders {
		email := ""
		if o.Customer != nil {
			email = o.Customer.Email
		}

		row := sheet.AddRow()
		row.AddCell().SetInt64(o.ID)
		row.AddCell().SetInt64(o.UserID)
		row.AddCell().SetString(email)
		row.AddCell().SetString(o.FullName)
		row.AddCell().SetString(o.Phone)
		row.AddCell().SetString(o.Address)
		row.AddCell().SetString(o.City)
		row.AddCell().SetString(string(o.Status))
		row.AddCell().SetString(string(o.PaymentStatus))
		row.AddCell().SetString(o.PaymentMethod)
		row.AddCell().SetString(o.TotalAmount.StringFixed(2))
		row.AddCell().SetString(o.CreatedAt.Format(timeLayout))

		for _, item := range o.Items {
			line := lines.AddRow()
			line.AddCell().SetInt64(o.ID)
			line.AddCell().SetInt64(item.ProductID)
			line.AddCell().SetString(item.Name)
			line.AddCell().SetInt(item.Quantity)
			line.AddCell().SetString(item.Price.StringFixed(2))
			line.AddCell().SetString(item.Total.StringFixed(2))
		}
	}

	if err := file.Write(w); err != nil {
		return fmt.Errorf("failed to write orders workbook: %w", err)
	}
	return nil
}

func addHeader(sheet *xlsx.Sheet, headers ...string) {
	row := sheet.AddRow()
	for _, h := range headers {
		row.AddCell().SetString(h)
	}
}
