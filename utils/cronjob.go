// Package utils hosts the scheduled maintenance job auditing the loan edge.
package utils

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/francescomascellino/library-api/store"
)

// StartReconciliationJob schedules the nightly loan-edge audit at midnight
// and returns the running scheduler so the caller can stop it on shutdown.
func StartReconciliationJob(books store.BookStore, users store.UserStore) *cron.Cron {
	c := cron.New()

	c.AddFunc("0 0 * * *", func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
		defer cancel()

		mismatches, err := ReconcileLoans(ctx, books, users)
		if err != nil {
			log.Printf("loan reconciliation failed: %v", err)
			return
		}
		if len(mismatches) == 0 {
			log.Println("loan reconciliation: all edges consistent")
			return
		}
		for _, m := range mismatches {
			log.Printf("loan reconciliation: %s", m)
		}
	})

	c.Start()
	return c
}

// ReconcileLoans audits both sides of every loan edge: a loaned book whose
// borrower does not list it, and a listed book that does not point back at
// its user, are both reported. Nothing is repaired; the two-write borrow
// sequence has no rollback, so a mismatch needs an operator's eye.
func ReconcileLoans(ctx context.Context, books store.BookStore, users store.UserStore) ([]string, error) {
	var mismatches []string

	loaned, err := books.FindLoaned(ctx)
	if err != nil {
		return nil, err
	}

	for i := range loaned {
		book := &loaned[i]
		borrower, err := users.FindByID(ctx, *book.LoanedTo)
		if err != nil {
			return nil, err
		}
		if borrower == nil {
			mismatches = append(mismatches, fmt.Sprintf(
				"book %s loaned to missing user %s", book.ID.Hex(), book.LoanedTo.Hex()))
			continue
		}
		if !borrower.HasOnLoan(book.ID) {
			mismatches = append(mismatches, fmt.Sprintf(
				"book %s points at user %s but the user's loan list does not contain it",
				book.ID.Hex(), borrower.ID.Hex()))
		}
	}

	allUsers, err := users.FindAll(ctx)
	if err != nil {
		return nil, err
	}

	for i := range allUsers {
		user := &allUsers[i]
		for _, bookID := range user.BooksOnLoan {
			book, err := books.FindByID(ctx, bookID)
			if err != nil {
				return nil, err
			}
			if book == nil {
				mismatches = append(mismatches, fmt.Sprintf(
					"user %s lists missing book %s", user.ID.Hex(), bookID.Hex()))
				continue
			}
			if book.LoanedTo == nil || *book.LoanedTo != user.ID {
				mismatches = append(mismatches, fmt.Sprintf(
					"user %s lists book %s but the book does not point back",
					user.ID.Hex(), bookID.Hex()))
			}
		}
	}

	return mismatches, nil
}
