package services

import (
	"context"
	"regexp"
	"strings"
	"testing"

	"github.com/Euaell/Car-Dealership/internal/apperrors"
	"github.com/Euaell/Car-Dealership/internal/models"
)

func strPtr(s string) *string { return &s }

func floatPtr(f float64) *float64 { return &f }

func TestCreateOrderWithCarReservesIt(t *testing.T) {
	db := newTestDB(t)
	svc := newOrderService(db)
	user := seedUser(t, db)
	car := seedCar(t, db, "1HGBH41JXMN109186", models.CarAvailable, 25000)

	order, err := svc.CreateOrder(context.Background(), CreateOrderInput{
		UserID: user.ID,
		CarID:  &car.ID,
	})
	if err != nil {
		t.Fatalf("CreateOrder: %v", err)
	}
	if order.Status != string(models.OrderPending) {
		t.Errorf("expected status PENDING, got %s", order.Status)
	}
	if order.PaymentStatus != string(models.PaymentUnpaid) {
		t.Errorf("expected payment status UNPAID, got %s", order.PaymentStatus)
	}
	if order.TotalAmount != 25000 {
		t.Errorf("expected total 25000, got %f", order.TotalAmount)
	}
	if got := carStatus(t, db, car.ID); got != string(models.CarReserved) {
		t.Errorf("expected car RESERVED, got %s", got)
	}
}

func TestCreateOrderComputesItemTotals(t *testing.T) {
	db := newTestDB(t)
	svc := newOrderService(db)
	user := seedUser(t, db)
	part := seedPart(t, db, "BP-1001", 10, 2, 19.50)

	order, err := svc.CreateOrder(context.Background(), CreateOrderInput{
		UserID: user.ID,
		Items: []OrderItemInput{
			{SparePartID: &part.ID, Quantity: 3, Discount: 5.25},
		},
	})
	if err != nil {
		t.Fatalf("CreateOrder: %v", err)
	}
	if len(order.Items) != 1 {
		t.Fatalf("expected 1 item, got %d", len(order.Items))
	}
	want := 19.50*3 - 5.25
	if order.Items[0].TotalPrice != want {
		t.Errorf("expected item total %f, got %f", want, order.Items[0].TotalPrice)
	}
	if order.TotalAmount != want {
		t.Errorf("expected order total %f, got %f", want, order.TotalAmount)
	}
	if got := partStock(t, db, part.ID); got != 7 {
		t.Errorf("expected stock 7 after order, got %d", got)
	}
}

func TestCreateOrderExactlyOneWinnerOverLastUnit(t *testing.T) {
	db := newTestDB(t)
	svc := newOrderService(db)
	user := seedUser(t, db)
	part := seedPart(t, db, "BP-1002", 1, 0, 10)

	first, err := svc.CreateOrder(context.Background(), CreateOrderInput{
		UserID: user.ID,
		Items:  []OrderItemInput{{SparePartID: &part.ID, Quantity: 1}},
	})
	if err != nil {
		t.Fatalf("first CreateOrder: %v", err)
	}
	if first == nil {
		t.Fatal("expected first order")
	}

	_, err = svc.CreateOrder(context.Background(), CreateOrderInput{
		UserID: user.ID,
		Items:  []OrderItemInput{{SparePartID: &part.ID, Quantity: 1}},
	})
	if apperrors.KindOf(err) != apperrors.KindInsufficientStock {
		t.Fatalf("expected insufficient stock error, got %v", err)
	}
	if got := partStock(t, db, part.ID); got != 0 {
		t.Errorf("expected stock 0, got %d", got)
	}
}

func TestCreateOrderFailureLeavesNoPartialEffects(t *testing.T) {
	db := newTestDB(t)
	svc := newOrderService(db)
	user := seedUser(t, db)
	car := seedCar(t, db, "2HGBH41JXMN109187", models.CarAvailable, 30000)
	partA := seedPart(t, db, "BP-2001", 5, 0, 10)
	partB := seedPart(t, db, "BP-2002", 1, 0, 10)

	_, err := svc.CreateOrder(context.Background(), CreateOrderInput{
		UserID: user.ID,
		CarID:  &car.ID,
		Items: []OrderItemInput{
			{SparePartID: &partA.ID, Quantity: 2},
			{SparePartID: &partB.ID, Quantity: 5}, // underflows
		},
	})
	if apperrors.KindOf(err) != apperrors.KindInsufficientStock {
		t.Fatalf("expected insufficient stock error, got %v", err)
	}

	// The whole transaction rolled back: no stock consumed, car free.
	if got := partStock(t, db, partA.ID); got != 5 {
		t.Errorf("expected part A stock 5, got %d", got)
	}
	if got := partStock(t, db, partB.ID); got != 1 {
		t.Errorf("expected part B stock 1, got %d", got)
	}
	if got := carStatus(t, db, car.ID); got != string(models.CarAvailable) {
		t.Errorf("expected car AVAILABLE, got %s", got)
	}
}

func TestCreateOrderCarNotAvailable(t *testing.T) {
	db := newTestDB(t)
	svc := newOrderService(db)
	user := seedUser(t, db)
	car := seedCar(t, db, "3HGBH41JXMN109188", models.CarSold, 15000)

	_, err := svc.CreateOrder(context.Background(), CreateOrderInput{
		UserID: user.ID,
		CarID:  &car.ID,
	})
	if apperrors.KindOf(err) != apperrors.KindConflict {
		t.Fatalf("expected conflict error, got %v", err)
	}
}

func TestCreateOrderMissingReferences(t *testing.T) {
	db := newTestDB(t)
	svc := newOrderService(db)
	user := seedUser(t, db)

	missing := uint(9999)
	_, err := svc.CreateOrder(context.Background(), CreateOrderInput{UserID: missing, CarID: &missing})
	if apperrors.KindOf(err) != apperrors.KindNotFound {
		t.Fatalf("expected not found for missing user, got %v", err)
	}

	_, err = svc.CreateOrder(context.Background(), CreateOrderInput{UserID: user.ID, CarID: &missing})
	if apperrors.KindOf(err) != apperrors.KindNotFound {
		t.Fatalf("expected not found for missing car, got %v", err)
	}

	_, err = svc.CreateOrder(context.Background(), CreateOrderInput{
		UserID: user.ID,
		Items:  []OrderItemInput{{SparePartID: &missing, Quantity: 1}},
	})
	if apperrors.KindOf(err) != apperrors.KindNotFound {
		t.Fatalf("expected not found for missing part, got %v", err)
	}
}

func TestOrderDeliveredSellsCarAndBlocksCancel(t *testing.T) {
	db := newTestDB(t)
	svc := newOrderService(db)
	user := seedUser(t, db)
	car := seedCar(t, db, "4HGBH41JXMN109189", models.CarAvailable, 20000)

	order, err := svc.CreateOrder(context.Background(), CreateOrderInput{UserID: user.ID, CarID: &car.ID})
	if err != nil {
		t.Fatalf("CreateOrder: %v", err)
	}

	if _, err := svc.UpdateOrderStatus(context.Background(), order.ID, UpdateOrderStatusInput{Status: strPtr(string(models.OrderProcessing))}); err != nil {
		t.Fatalf("to PROCESSING: %v", err)
	}
	if _, err := svc.UpdateOrderStatus(context.Background(), order.ID, UpdateOrderStatusInput{Status: strPtr(string(models.OrderDelivered))}); err != nil {
		t.Fatalf("to DELIVERED: %v", err)
	}
	if got := carStatus(t, db, car.ID); got != string(models.CarSold) {
		t.Errorf("expected car SOLD, got %s", got)
	}

	_, err = svc.CancelOrder(context.Background(), order.ID, "too late")
	if apperrors.KindOf(err) != apperrors.KindInvalidState {
		t.Fatalf("expected invalid state cancelling delivered order, got %v", err)
	}
}

func TestOrderStatusInvalidTransition(t *testing.T) {
	db := newTestDB(t)
	svc := newOrderService(db)
	user := seedUser(t, db)
	part := seedPart(t, db, "BP-3001", 4, 0, 12)

	order, err := svc.CreateOrder(context.Background(), CreateOrderInput{
		UserID: user.ID,
		Items:  []OrderItemInput{{SparePartID: &part.ID, Quantity: 1}},
	})
	if err != nil {
		t.Fatalf("CreateOrder: %v", err)
	}

	// PENDING -> DELIVERED skips the allowed graph.
	_, err = svc.UpdateOrderStatus(context.Background(), order.ID, UpdateOrderStatusInput{Status: strPtr(string(models.OrderDelivered))})
	if apperrors.KindOf(err) != apperrors.KindInvalidTransition {
		t.Fatalf("expected invalid transition, got %v", err)
	}
}

func TestOrderStatusSameStatusIsNoOp(t *testing.T) {
	db := newTestDB(t)
	svc := newOrderService(db)
	user := seedUser(t, db)
	part := seedPart(t, db, "BP-3002", 4, 0, 12)

	order, err := svc.CreateOrder(context.Background(), CreateOrderInput{
		UserID: user.ID,
		Items:  []OrderItemInput{{SparePartID: &part.ID, Quantity: 2}},
	})
	if err != nil {
		t.Fatalf("CreateOrder: %v", err)
	}

	if _, err := svc.UpdateOrderStatus(context.Background(), order.ID, UpdateOrderStatusInput{Status: strPtr(string(models.OrderCancelled))}); err != nil {
		t.Fatalf("to CANCELLED: %v", err)
	}
	if got := partStock(t, db, part.ID); got != 4 {
		t.Fatalf("expected stock restored to 4, got %d", got)
	}

	// Re-requesting CANCELLED must not restock again.
	if _, err := svc.UpdateOrderStatus(context.Background(), order.ID, UpdateOrderStatusInput{Status: strPtr(string(models.OrderCancelled))}); err != nil {
		t.Fatalf("repeat CANCELLED: %v", err)
	}
	if got := partStock(t, db, part.ID); got != 4 {
		t.Errorf("expected stock still 4 after repeat, got %d", got)
	}
}

func TestCancelOrderRestoresStockAndCar(t *testing.T) {
	db := newTestDB(t)
	svc := newOrderService(db)
	user := seedUser(t, db)
	car := seedCar(t, db, "5HGBH41JXMN109190", models.CarAvailable, 18000)
	part := seedPart(t, db, "BP-4001", 6, 1, 33)

	order, err := svc.CreateOrder(context.Background(), CreateOrderInput{
		UserID: user.ID,
		CarID:  &car.ID,
		Items:  []OrderItemInput{{SparePartID: &part.ID, Quantity: 4}},
	})
	if err != nil {
		t.Fatalf("CreateOrder: %v", err)
	}
	if got := partStock(t, db, part.ID); got != 2 {
		t.Fatalf("expected stock 2 after order, got %d", got)
	}

	cancelled, err := svc.CancelOrder(context.Background(), order.ID, "customer changed mind")
	if err != nil {
		t.Fatalf("CancelOrder: %v", err)
	}
	if cancelled.Status != string(models.OrderCancelled) {
		t.Errorf("expected status CANCELLED, got %s", cancelled.Status)
	}
	if !strings.Contains(cancelled.Notes, "Cancelled: customer changed mind") {
		t.Errorf("expected cancellation note, got %q", cancelled.Notes)
	}
	if got := partStock(t, db, part.ID); got != 6 {
		t.Errorf("expected stock back to 6, got %d", got)
	}
	if got := carStatus(t, db, car.ID); got != string(models.CarAvailable) {
		t.Errorf("expected car AVAILABLE, got %s", got)
	}

	// Double cancel fails and does not restock again.
	_, err = svc.CancelOrder(context.Background(), order.ID, "again")
	if apperrors.KindOf(err) != apperrors.KindInvalidState {
		t.Fatalf("expected invalid state on double cancel, got %v", err)
	}
	if got := partStock(t, db, part.ID); got != 6 {
		t.Errorf("expected stock still 6, got %d", got)
	}
}

func TestRefundRequiresCancelledOrder(t *testing.T) {
	db := newTestDB(t)
	svc := newOrderService(db)
	user := seedUser(t, db)
	part := seedPart(t, db, "BP-5001", 3, 0, 20)

	order, err := svc.CreateOrder(context.Background(), CreateOrderInput{
		UserID:        user.ID,
		Items:         []OrderItemInput{{SparePartID: &part.ID, Quantity: 1}},
		PaymentStatus: string(models.PaymentPaid),
	})
	if err != nil {
		t.Fatalf("CreateOrder: %v", err)
	}

	_, err = svc.UpdateOrderStatus(context.Background(), order.ID, UpdateOrderStatusInput{PaymentStatus: strPtr(string(models.PaymentRefunded))})
	if apperrors.KindOf(err) != apperrors.KindInvalidState {
		t.Fatalf("expected invalid state refunding live order, got %v", err)
	}

	if _, err := svc.CancelOrder(context.Background(), order.ID, ""); err != nil {
		t.Fatalf("CancelOrder: %v", err)
	}
	updated, err := svc.UpdateOrderStatus(context.Background(), order.ID, UpdateOrderStatusInput{PaymentStatus: strPtr(string(models.PaymentRefunded))})
	if err != nil {
		t.Fatalf("refund after cancel: %v", err)
	}
	if updated.PaymentStatus != string(models.PaymentRefunded) {
		t.Errorf("expected REFUNDED, got %s", updated.PaymentStatus)
	}
}

func TestCreateOrderValidation(t *testing.T) {
	db := newTestDB(t)
	svc := newOrderService(db)
	user := seedUser(t, db)
	part := seedPart(t, db, "BP-6001", 3, 0, 20)

	cases := []struct {
		name  string
		input CreateOrderInput
	}{
		{"empty order", CreateOrderInput{UserID: user.ID}},
		{"zero quantity", CreateOrderInput{UserID: user.ID, Items: []OrderItemInput{{SparePartID: &part.ID, Quantity: 0}}}},
		{"negative discount", CreateOrderInput{UserID: user.ID, Items: []OrderItemInput{{SparePartID: &part.ID, Quantity: 1, Discount: -1}}}},
		{"free-form item without price", CreateOrderInput{UserID: user.ID, Items: []OrderItemInput{{Name: "Detailing", Quantity: 1}}}},
		{"bad payment status", CreateOrderInput{UserID: user.ID, PaymentStatus: "LAYAWAY", Items: []OrderItemInput{{SparePartID: &part.ID, Quantity: 1}}}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.CreateOrder(context.Background(), tc.input)
			if apperrors.KindOf(err) != apperrors.KindValidation {
				t.Fatalf("expected validation error, got %v", err)
			}
		})
	}
}

func TestGenerateOrderNumberFormat(t *testing.T) {
	pattern := regexp.MustCompile(`^ORD-\d{10,}\d{3}$`)
	seen := make(map[string]bool)
	for i := 0; i < 50; i++ {
		n := GenerateOrderNumber()
		if !pattern.MatchString(n) {
			t.Fatalf("unexpected order number format: %s", n)
		}
		seen[n] = true
	}
	if len(seen) < 2 {
		t.Error("expected order numbers to vary across calls")
	}
}
