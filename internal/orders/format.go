package orders

import (
	"bytes"
	"html/template"
)

const noOrdersHTML = "<div>No orders found.</div>"

var orderHistoryTmpl = template.Must(template.New("order_history").Funcs(template.FuncMap{
	"shortID": ShortID,
}).Parse(`<div style="font-family: sans-serif; max-width: 800px; margin: 0 auto; padding: 20px;">
<h2 style="color: #1e3a8a; text-align: center; margin-bottom: 20px;">📦 Order History</h2>
{{- range .}}
<div style="background: white; border-radius: 8px; padding: 20px; margin-bottom: 20px; box-shadow: 0 2px 4px rgba(0,0,0,0.1);">
<div style="font-size: 1.2em; font-weight: bold; color: #1e3a8a; margin-bottom: 15px;">Order #{{shortID .OrderID}}</div>
<div style="display: grid; grid-template-columns: repeat(auto-fit, minmax(200px, 1fr)); gap: 15px; margin-bottom: 15px;">
<div style="padding: 10px; background: #f8f9fa; border-radius: 5px;"><div style="font-size: 0.9em; color: #666;">Product</div><div style="font-weight: 500; color: #333;">{{.Product}}</div></div>
<div style="padding: 10px; background: #f8f9fa; border-radius: 5px;"><div style="font-size: 0.9em; color: #666;">Quantity</div><div style="font-weight: 500; color: #333;">{{.Quantity}} units</div></div>
<div style="padding: 10px; background: #f8f9fa; border-radius: 5px;"><div style="font-size: 0.9em; color: #666;">Order Date</div><div style="font-weight: 500; color: #333;">{{.OrderDate}}</div></div>
</div>
<div style="text-align: right; font-size: 1.1em; color: #1e3a8a; font-weight: bold; padding-top: 10px; border-top: 1px solid #eee;">Total Amount: ${{printf "%.2f" .TotalPrice}}</div>
</div>
{{- end}}
</div>`))

// FormatHTML renders the order history block shown in chat. Records keep
// their input order. An empty slice yields a single "no orders" notice.
func FormatHTML(records []Record) string {
	if len(records) == 0 {
		return noOrdersHTML
	}
	var buf bytes.Buffer
	if err := orderHistoryTmpl.Execute(&buf, records); err != nil {
		// Only reachable if the template itself is broken.
		return noOrdersHTML
	}
	return buf.String()
}

// ShortID truncates an order identifier to its first eight characters
// followed by an ellipsis.
func ShortID(orderID string) string {
	r := []rune(orderID)
	if len(r) > 8 {
		r = r[:8]
	}
	return string(r) + "..."
}
