// Package model contains the domain entities of the PCC tracker service.
package model

// DeliveryStatus describes the delivery state of a service order.
type DeliveryStatus string

const (
	StatusPending   DeliveryStatus = "Pending"
	StatusDelivered DeliveryStatus = "Delivered"
)

// ServiceType describes the processing class of a service order. It has no
// behavioral effect and is stored for reporting only.
type ServiceType string

const (
	ServiceNormal ServiceType = "Normal"
	ServiceUrgent ServiceType = "Urgent"
)

// Record describes one tracked service order with its payment and delivery
// state. DueAmount is always derived as TotalAmount - PaidAmount; it is never
// accepted from external input. The JSON field names match the persisted
// backup format, so older backups restore losslessly.
type Record struct {
	ID            string         `json:"id"`
	SerialNo      string         `json:"serialNo"`
	PCCNumber     string         `json:"pccNumber"`
	PCCHolderName string         `json:"pccHolderName"`
	CustomerName  string         `json:"customerName"`
	TotalAmount   float64        `json:"totalAmount"`
	PaidAmount    float64        `json:"paidAmount"`
	DueAmount     float64        `json:"dueAmount"`
	Status        DeliveryStatus `json:"status"`
	ServiceType   ServiceType    `json:"serviceType"`
	ReceivedBy    string         `json:"receivedBy,omitempty"`
	EntryDate     string         `json:"entryDate"`
	DeliveryDate  string         `json:"deliveryDate,omitempty"`
	CreatedAt     string         `json:"createdAt"`
}

// BusinessProfile contains the shop identity printed on invoices and
// statements.
type BusinessProfile struct {
	ShopName string `json:"shopName"`
	Address  string `json:"address"`
	Phone    string `json:"phone"`
}

// DashboardStats contains the aggregate figures shown on the dashboard.
type DashboardStats struct {
	TotalRecords    int     `json:"totalRecords"`
	TotalPending    int     `json:"totalPending"`
	TotalDelivered  int     `json:"totalDelivered"`
	TotalDueAmount  float64 `json:"totalDueAmount"`
	TodayEntries    int     `json:"todayEntries"`
	TodayDeliveries int     `json:"todayDeliveries"`
}
