package services

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"

	"curepharmax/internal/billing"
	"curepharmax/internal/caching"
	"curepharmax/internal/models"
	"curepharmax/internal/repositories"
)

type OrderService interface {
	// SubmitOrder turns a customer's cart draft into a pending online order
	// and clears the cart. Stock is untouched until an admin approves.
	SubmitOrder(ctx context.Context, userID uuid.UUID, draft *billing.Draft) (*models.OnlineOrder, error)

	GetOrder(ctx context.Context, id uuid.UUID) (*models.OnlineOrder, error)
	GetStatus(ctx context.Context, id uuid.UUID) (models.OrderStatus, error)
	List(ctx context.Context, status models.OrderStatus, limit, offset int) ([]*models.OnlineOrder, error)
	ListByPhone(ctx context.Context, phone string) ([]*models.OnlineOrder, error)

	Approve(ctx context.Context, id uuid.UUID) error
	Reject(ctx context.Context, id uuid.UUID) error
	Delete(ctx context.Context, id uuid.UUID) error

	// CountPending serves the admin badge; the count is cached so the
	// 15-second poll does not hit postgres every tick.
	CountPending(ctx context.Context) (int64, error)
	RefreshPendingCount(ctx context.Context) (int64, error)
}

type orderService struct {
	orderRepo repositories.OrderRepository
	carts     billing.CartStore
	cache     caching.CacheService
}

func NewOrderService(orderRepo repositories.OrderRepository, carts billing.CartStore, cache caching.CacheService) OrderService {
	return &orderService{
		orderRepo: orderRepo,
		carts:     carts,
		cache:     cache,
	}
}

func (s *orderService) SubmitOrder(ctx context.Context, userID uuid.UUID, draft *billing.Draft) (*models.OnlineOrder, error) {
	if err := draft.ValidateForSubmission(); err != nil {
		return nil, err
	}

	order := &models.OnlineOrder{
		ID:            uuid.New(),
		CustomerName:  strings.TrimSpace(draft.CustomerName),
		CustomerPhone: strings.TrimSpace(draft.CustomerPhone),
		PaymentMode:   draft.PaymentMode,
		GrandTotal:    draft.GrandTotal(),
		Status:        models.OrderStatusPending,
		BillDate:      time.Now(),
	}
	if addr := strings.TrimSpace(draft.ShippingAddress); addr != "" {
		order.ShippingAddress = &addr
	}

	for _, li := range draft.Items {
		item := &models.OrderItem{
			ID:              uuid.New(),
			OrderID:         order.ID,
			MedicineName:    li.Name,
			Quantity:        li.Quantity,
			MRP:             li.UnitPrice,
			DiscountPercent: li.DiscountPercent,
			TotalPrice:      li.Total(),
		}
		if !li.IsManual {
			medID, err := uuid.Parse(li.ID)
			if err != nil {
				return nil, fmt.Errorf("invalid catalog item id %q: %w", li.ID, err)
			}
			item.MedicineID = &medID
		}
		order.Items = append(order.Items, item)
	}

	if err := s.orderRepo.Create(ctx, order); err != nil {
		return nil, err
	}

	if err := s.carts.Clear(ctx, userID); err != nil {
		log.Printf("WARN: failed to clear cart for user %s: %v", userID, err)
	}
	if _, err := s.RefreshPendingCount(ctx); err != nil {
		log.Printf("WARN: failed to refresh pending order count: %v", err)
	}
	return order, nil
}

func (s *orderService) GetOrder(ctx context.Context, id uuid.UUID) (*models.OnlineOrder, error) {
	return s.orderRepo.GetByID(ctx, id)
}

func (s *orderService) GetStatus(ctx context.Context, id uuid.UUID) (models.OrderStatus, error) {
	return s.orderRepo.GetStatus(ctx, id)
}

func (s *orderService) List(ctx context.Context, status models.OrderStatus, limit, offset int) ([]*models.OnlineOrder, error) {
	return s.orderRepo.List(ctx, status, limit, offset)
}

func (s *orderService) ListByPhone(ctx context.Context, phone string) ([]*models.OnlineOrder, error) {
	return s.orderRepo.ListByPhone(ctx, phone)
}

func (s *orderService) Approve(ctx context.Context, id uuid.UUID) error {
	if err := s.orderRepo.Approve(ctx, id); err != nil {
		return err
	}
	s.afterArbitration(ctx)
	return nil
}

func (s *orderService) Reject(ctx context.Context, id uuid.UUID) error {
	if err := s.orderRepo.Reject(ctx, id); err != nil {
		return err
	}
	s.afterArbitration(ctx)
	return nil
}

func (s *orderService) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.orderRepo.Delete(ctx, id); err != nil {
		return err
	}
	s.afterArbitration(ctx)
	return nil
}

func (s *orderService) CountPending(ctx context.Context) (int64, error) {
	if count, found, err := s.cache.GetPendingOrderCount(ctx); err == nil && found {
		return count, nil
	}
	return s.RefreshPendingCount(ctx)
}

// RefreshPendingCount recounts from postgres and rewrites the cached value.
func (s *orderService) RefreshPendingCount(ctx context.Context) (int64, error) {
	count, err := s.orderRepo.CountPending(ctx)
	if err != nil {
		return 0, err
	}
	if err := s.cache.SetPendingOrderCount(ctx, count); err != nil {
		log.Printf("WARN: failed to cache pending order count: %v", err)
	}
	return count, nil
}

func (s *orderService) afterArbitration(ctx context.Context) {
	if _, err := s.RefreshPendingCount(ctx); err != nil {
		log.Printf("WARN: failed to refresh pending order count: %v", err)
	}
	if err := s.cache.InvalidateDashboardStats(ctx); err != nil {
		log.Printf("WARN: failed to invalidate dashboard stats cache: %v", err)
	}
}
