package db

import (
	"errors"
	"fmt"

	"github.com/diewo77/invoice-dashboard/internal/models"
	"gorm.io/gorm"
)

// DemoCustomers are inserted by Seed. Ids are fixed so seeded invoices and
// bookmarks stay valid across runs.
var DemoCustomers = []models.Customer{
	{ID: "d6e15727-9fe1-4961-8c5b-ea44a9bd81aa", Name: "Evil Rabbit", Email: "evil@rabbit.com", ImageURL: "/customers/evil-rabbit.png"},
	{ID: "3958dc9e-712f-4377-85e9-fec4b6a6442a", Name: "Delba de Oliveira", Email: "delba@oliveira.com", ImageURL: "/customers/delba-de-oliveira.png"},
	{ID: "3958dc9e-742f-4377-85e9-fec4b6a6442a", Name: "Lee Robinson", Email: "lee@robinson.com", ImageURL: "/customers/lee-robinson.png"},
	{ID: "76d65c26-f784-44a2-ac19-586678f7c2f2", Name: "Michael Novotny", Email: "michael@novotny.com", ImageURL: "/customers/michael-novotny.png"},
	{ID: "cc27c14a-0acf-4f4a-a6c9-d45682c144b9", Name: "Amy Burns", Email: "amy@burns.com", ImageURL: "/customers/amy-burns.png"},
	{ID: "13d07535-c59e-4157-a011-f8d2ef4e0cbb", Name: "Balazs Orban", Email: "balazs@orban.com", ImageURL: "/customers/balazs-orban.png"},
}

var demoInvoices = []models.Invoice{
	{CustomerID: DemoCustomers[0].ID, Amount: 15795, Status: models.InvoiceStatusPending, Date: "2022-12-06"},
	{CustomerID: DemoCustomers[1].ID, Amount: 20348, Status: models.InvoiceStatusPending, Date: "2022-11-14"},
	{CustomerID: DemoCustomers[4].ID, Amount: 3040, Status: models.InvoiceStatusPaid, Date: "2022-10-29"},
	{CustomerID: DemoCustomers[3].ID, Amount: 44800, Status: models.InvoiceStatusPaid, Date: "2023-09-10"},
	{CustomerID: DemoCustomers[5].ID, Amount: 34577, Status: models.InvoiceStatusPending, Date: "2023-08-05"},
	{CustomerID: DemoCustomers[2].ID, Amount: 54246, Status: models.InvoiceStatusPending, Date: "2023-07-16"},
	{CustomerID: DemoCustomers[0].ID, Amount: 666, Status: models.InvoiceStatusPending, Date: "2023-06-27"},
	{CustomerID: DemoCustomers[3].ID, Amount: 32545, Status: models.InvoiceStatusPaid, Date: "2023-06-09"},
	{CustomerID: DemoCustomers[4].ID, Amount: 1250, Status: models.InvoiceStatusPaid, Date: "2023-06-17"},
	{CustomerID: DemoCustomers[5].ID, Amount: 8546, Status: models.InvoiceStatusPaid, Date: "2023-06-07"},
	{CustomerID: DemoCustomers[1].ID, Amount: 500, Status: models.InvoiceStatusPaid, Date: "2023-08-19"},
	{CustomerID: DemoCustomers[5].ID, Amount: 8945, Status: models.InvoiceStatusPaid, Date: "2023-06-03"},
	{CustomerID: DemoCustomers[2].ID, Amount: 1000, Status: models.InvoiceStatusPaid, Date: "2022-06-05"},
}

// Seed inserts the demo customers that are missing and, when the invoices
// table is empty, a demo set of invoices. Running it twice is a no-op.
func Seed(db *gorm.DB) error {
	for _, c := range DemoCustomers {
		var existing models.Customer
		err := db.Where("id = ?", c.ID).First(&existing).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			if err := db.Create(&c).Error; err != nil {
				return fmt.Errorf("seed customer %s: %w", c.Name, err)
			}
			continue
		}
		if err != nil {
			return fmt.Errorf("seed customer %s: %w", c.Name, err)
		}
	}

	var count int64
	if err := db.Model(&models.Invoice{}).Count(&count).Error; err != nil {
		return fmt.Errorf("count invoices: %w", err)
	}
	if count > 0 {
		return nil
	}
	invoices := make([]models.Invoice, len(demoInvoices))
	copy(invoices, demoInvoices)
	if err := db.Create(&invoices).Error; err != nil {
		return fmt.Errorf("seed invoices: %w", err)
	}
	return nil
}
