package jobs

import (
	"context"
	"log"

	"curepharmax/internal/models"
	"curepharmax/internal/repositories"
)

// LowStockSweep logs the medicines sitting below the restock threshold so
// the operator sees them in the morning console scroll.
type LowStockSweep struct {
	medicineRepo repositories.MedicineRepository
}

func NewLowStockSweep(medicineRepo repositories.MedicineRepository) *LowStockSweep {
	return &LowStockSweep{medicineRepo: medicineRepo}
}

func (s *LowStockSweep) Run(ctx context.Context) error {
	low, err := s.medicineRepo.Search(ctx, &models.MedicineSearchFilter{Filter: models.MedicineFilterLowStock})
	if err != nil {
		return err
	}
	for _, med := range low {
		log.Printf("Low stock: %s has %d units left", med.Name, med.Quantity)
	}
	if len(low) > 0 {
		log.Printf("Low stock sweep found %d medicines below threshold", len(low))
	}
	return nil
}
