package billing

import (
	"testing"
	"time"

	"github.com/brightpath/academia/core/student"
)

func TestOutstandingBalance(t *testing.T) {
	stu := student.Student{StudentID: "S12345", TotalFee: 150000, Discount: 10000}

	tests := []struct {
		name     string
		payments []Payment
		want     float64
	}{
		{name: "no payments", want: 140000},
		{
			name: "pending payments do not count",
			payments: []Payment{
				{Amount: 70000, Status: StatusPendingVerification},
			},
			want: 140000,
		},
		{
			name: "rejected payments do not count",
			payments: []Payment{
				{Amount: 70000, Status: StatusRejected},
			},
			want: 140000,
		},
		{
			name: "two instalments settle the fee",
			payments: []Payment{
				{Amount: 70000, Status: StatusPaid},
				{Amount: 70000, Status: StatusPaid},
			},
			want: 0,
		},
		{
			name: "overpayment goes negative",
			payments: []Payment{
				{Amount: 150000, Status: StatusPaid},
			},
			want: -10000,
		},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			if got := OutstandingBalance(stu, tt.payments); got != tt.want {
				t.Errorf("OutstandingBalance() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestSummarize(t *testing.T) {
	now := time.Date(2026, time.March, 1, 0, 0, 0, 0, time.UTC)
	pastDue := now.AddDate(0, -1, 0)
	futureDue := now.AddDate(0, 1, 0)

	tests := []struct {
		name       string
		stu        student.Student
		payments   []Payment
		wantStatus string
		wantOwed   float64
	}{
		{
			name:       "fee not set wins over everything",
			stu:        student.Student{DueDate: pastDue},
			payments:   []Payment{{Amount: 500, Status: StatusPendingVerification}},
			wantStatus: FeeNotSet,
			wantOwed:   0,
		},
		{
			name:       "pending wins over overdue",
			stu:        student.Student{TotalFee: 1000, DueDate: pastDue},
			payments:   []Payment{{Amount: 500, Status: StatusPendingVerification}},
			wantStatus: FeePendingVerification,
			wantOwed:   1000,
		},
		{
			name:       "overdue",
			stu:        student.Student{TotalFee: 1000, DueDate: pastDue},
			wantStatus: FeeOverdue,
			wantOwed:   1000,
		},
		{
			name:       "outstanding before due date",
			stu:        student.Student{TotalFee: 1000, DueDate: futureDue},
			wantStatus: FeeOutstanding,
			wantOwed:   1000,
		},
		{
			name:       "outstanding with no due date",
			stu:        student.Student{TotalFee: 1000},
			wantStatus: FeeOutstanding,
			wantOwed:   1000,
		},
		{
			name:       "paid",
			stu:        student.Student{TotalFee: 1000, DueDate: pastDue},
			payments:   []Payment{{Amount: 1000, Status: StatusPaid}},
			wantStatus: FeePaid,
			wantOwed:   0,
		},
		{
			name: "discount applies",
			stu:  student.Student{TotalFee: 1000, Discount: 200},
			payments: []Payment{
				{Amount: 800, Status: StatusPaid},
			},
			wantStatus: FeePaid,
			wantOwed:   0,
		},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			sum := Summarize(tt.stu, tt.payments, now)
			if sum.Status != tt.wantStatus {
				t.Errorf("Summarize().Status = %s, want %s", sum.Status, tt.wantStatus)
			}
			if sum.OutstandingBalance != tt.wantOwed {
				t.Errorf("Summarize().OutstandingBalance = %v, want %v", sum.OutstandingBalance, tt.wantOwed)
			}
		})
	}
}

func TestIsOverdue(t *testing.T) {
	now := time.Date(2026, time.March, 1, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name     string
		stu      student.Student
		payments []Payment
		want     bool
	}{
		{name: "no due date is never overdue", stu: student.Student{TotalFee: 1000}, want: false},
		{name: "before due date", stu: student.Student{TotalFee: 1000, DueDate: now.AddDate(0, 0, 1)}, want: false},
		{name: "past due date with balance", stu: student.Student{TotalFee: 1000, DueDate: now.AddDate(0, 0, -1)}, want: true},
		{
			name:     "past due date fully paid",
			stu:      student.Student{TotalFee: 1000, DueDate: now.AddDate(0, 0, -1)},
			payments: []Payment{{Amount: 1000, Status: StatusPaid}},
			want:     false,
		},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			if got := IsOverdue(tt.stu, tt.payments, now); got != tt.want {
				t.Errorf("IsOverdue() = %v, want %v", got, tt.want)
			}
		})
	}
}
