// Package shell is the interactive menu of the library counter.
package shell

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/sheikh-saqib/rental-ledger/internal/catalog"
	"github.com/sheikh-saqib/rental-ledger/internal/codec"
	"github.com/sheikh-saqib/rental-ledger/internal/ledger"
	"github.com/sheikh-saqib/rental-ledger/internal/models"
)

// RentalService is what the shell needs from the ledger.
type RentalService interface {
	Rent(ctx context.Context, id int, title, customerID string, pricePerDay decimal.Decimal) (models.ActiveRental, error)
	Return(ctx context.Context, id int) (models.CompletedReturn, bool, error)
	Status(ctx context.Context, id int) (ledger.Status, error)
}

type Shell struct {
	rentals RentalService
	catalog *catalog.Catalog
	in      *bufio.Scanner
	out     io.Writer
}

func New(rentals RentalService, cat *catalog.Catalog, in io.Reader, out io.Writer) *Shell {
	return &Shell{
		rentals: rentals,
		catalog: cat,
		in:      bufio.NewScanner(in),
		out:     out,
	}
}

// Run shows the menu until the user quits, the input ends or ctx is canceled.
// Ledger errors are reported and the loop carries on.
func (s *Shell) Run(ctx context.Context) error {
	s.println("===============================")
	s.println("      Library (SIMPLE)         ")
	s.println("===============================")

	for ctx.Err() == nil {
		s.println("\nMenu:")
		s.println("1) Rent")
		s.println("2) Return")
		s.println("3) Book status")
		s.println("4) Quit")

		op, ok := s.ask("Choose: ")
		if !ok {
			break
		}

		var err error
		switch op {
		case "1":
			err = s.rent(ctx)
		case "2":
			err = s.returnItem(ctx)
		case "3":
			err = s.status(ctx)
		case "4":
			s.println("Bye.")
			return nil
		default:
			s.println("Invalid option.")
		}
		if err != nil {
			fmt.Fprintln(s.out, "Error:", err)
		}
	}

	s.println("Bye.")
	return ctx.Err()
}

func (s *Shell) rent(ctx context.Context) error {
	s.println("Available books:")
	for _, it := range s.catalog.Available() {
		fmt.Fprintf(s.out, "ID: %d - Title: %s\n", it.ID, it.Title)
	}

	idStr, _ := s.ask("Book ID to rent: ")
	id, err := strconv.Atoi(idStr)
	item, found := s.catalog.Get(id)
	if err != nil || !found || !item.InStock {
		s.println("Book not available or invalid ID.")
		return nil
	}

	customerID, _ := s.ask("Customer CPF: ")
	priceStr, _ := s.ask("Price per day (e.g. 6.5): ")
	price, err := decimal.NewFromString(strings.Replace(priceStr, ",", ".", 1))
	if err != nil {
		s.println("Invalid price.")
		return nil
	}

	rental, err := s.rentals.Rent(ctx, id, item.Title, customerID, price)
	if err != nil {
		return err
	}
	s.catalog.MarkRented(id)

	s.println("\n>> RENTAL RECORDED")
	s.printActive(rental)
	return nil
}

func (s *Shell) returnItem(ctx context.Context) error {
	id, ok := s.askID("ID to return: ")
	if !ok {
		return nil
	}

	ret, found, err := s.rentals.Return(ctx, id)
	if err != nil {
		return err
	}
	if !found {
		s.println("Book not found among active rentals.")
		return nil
	}
	s.catalog.MarkReturned(id)

	s.println("\n>> RETURN RECORDED")
	s.printReturn(ret)
	return nil
}

func (s *Shell) status(ctx context.Context) error {
	id, ok := s.askID("ID to look up: ")
	if !ok {
		return nil
	}

	st, err := s.rentals.Status(ctx, id)
	if err != nil {
		return err
	}

	switch st := st.(type) {
	case ledger.Active:
		s.println("Status: RENTED")
		s.printActive(st.Rental)
	case ledger.Returned:
		s.println("Status: RETURNED (latest)")
		s.printReturn(st.Return)
	default:
		s.println("Book not found.")
	}
	return nil
}

// askID reads a positive integer id; anything else is rejected here.
func (s *Shell) askID(prompt string) (int, bool) {
	idStr, _ := s.ask(prompt)
	id, err := strconv.Atoi(idStr)
	if err != nil || id <= 0 {
		s.println("Invalid ID.")
		return 0, false
	}
	return id, true
}

func (s *Shell) ask(prompt string) (string, bool) {
	fmt.Fprint(s.out, prompt)
	if !s.in.Scan() {
		return "", false
	}
	return strings.TrimSpace(s.in.Text()), true
}

func (s *Shell) println(line string) {
	fmt.Fprintln(s.out, line)
}

func (s *Shell) printActive(r models.ActiveRental) {
	fmt.Fprintf(s.out, "  ID:            %d\n", r.ID)
	fmt.Fprintf(s.out, "  Title:         %s\n", r.Title)
	fmt.Fprintf(s.out, "  Customer CPF:  %s\n", r.CustomerID)
	fmt.Fprintf(s.out, "  Rented:        %s\n", codec.FormatTime(r.RentedAt))
	fmt.Fprintf(s.out, "  Price per day: R$ %s\n", r.PricePerDay.StringFixed(2))
}

func (s *Shell) printReturn(r models.CompletedReturn) {
	s.printActive(r.ActiveRental)
	fmt.Fprintf(s.out, "  Returned:      %s\n", codec.FormatTime(r.ReturnedAt))
	fmt.Fprintf(s.out, "  Days:          %d\n", r.Days)
	fmt.Fprintf(s.out, "  Amount owed:   R$ %s\n", r.AmountOwed.StringFixed(2))
}
