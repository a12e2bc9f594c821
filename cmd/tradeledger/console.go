package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"tradeledger/internal/interfaces"
	"tradeledger/internal/models"
	"tradeledger/internal/session"
)

// runConsole drives the interactive menu loop. It is a plain caller of
// the session: all validation, conflict detection and persistence
// happen behind the TradingSession surface; the console only collects
// input and renders returned text.
func runConsole(ctx context.Context, sess interfaces.TradingSession) error {
	in := bufio.NewScanner(os.Stdin)

	for {
		// Keep the header current even while not logged in.
		if err := sess.Refresh(ctx); err != nil {
			return err
		}

		fmt.Printf("session id: %s\n", sess.SessionID())
		fmt.Printf("user: %s\n", sess.CurrentAccountName())
		if balance, ok := sess.CurrentBalance(); ok {
			fmt.Printf("money: $%.2f\n", balance)
		} else {
			fmt.Println("money: ?")
		}
		fmt.Printf("server time: %s\n", sess.ServerTimeDisplay())
		if day, ok := sess.CurrentDayIndex(); ok {
			fmt.Printf("day: %d\n", day)
		} else {
			fmt.Println("day: ?")
		}

		printMenu()
		option := promptInt(in, "Choose an option: ")

		var err error
		switch option {
		case 1:
			err = login(ctx, sess, in)
		case 2:
			err = printOf(sess.ListStocks(ctx))
		case 3:
			err = purchase(ctx, sess, in)
		case 4:
			err = printOf(sess.ListPositions(ctx))
		case 5:
			err = sell(ctx, sess, in)
		case 6:
			err = printOf(sess.TrackPositions(ctx))
		case 7:
			if err = sess.AdvanceDay(ctx); err == nil {
				fmt.Println("a day has passed...")
			}
		case 8:
			err = printOf(sess.RankAccounts(ctx))
		case 9:
			sess.Deauthenticate()
			fmt.Println("signed out")
		case 10:
			fmt.Println("goodbye")
			return nil
		default:
			fmt.Println("invalid input")
		}

		if err != nil {
			reportError(err)
		}

		fmt.Println(">> press enter to continue")
		in.Scan()
	}
}

func printMenu() {
	fmt.Println("1. Login")
	fmt.Println("2. View stocks on the market")
	fmt.Println("3. Purchase a stock")
	fmt.Println("4. View owned stocks")
	fmt.Println("5. Sell a stock")
	fmt.Println("6. Investment report")
	fmt.Println("7. Sleep for one day")
	fmt.Println("8. View top earners")
	fmt.Println("9. Sign out")
	fmt.Println("10. Quit")
}

func login(ctx context.Context, sess interfaces.TradingSession, in *bufio.Scanner) error {
	userName := promptLine(in, "Enter username: ")
	password := promptLine(in, "Enter password: ")

	err := sess.Authenticate(ctx, userName, password)
	switch {
	case err == nil:
		fmt.Println("logged in")
	case errors.Is(err, session.ErrAlreadyLoggedIn):
		fmt.Println("you have already logged in")
		err = nil
	}
	return err
}

func purchase(ctx context.Context, sess interfaces.TradingSession, in *bufio.Scanner) error {
	stockNo := promptInt(in, "Enter stock no: ")
	quantity := promptInt(in, "Enter quantity: ")

	if err := sess.Purchase(ctx, stockNo, quantity); err != nil {
		return err
	}
	fmt.Println("purchased successfully")
	return nil
}

func sell(ctx context.Context, sess interfaces.TradingSession, in *bufio.Scanner) error {
	positionNo := promptInt(in, "Enter position no: ")
	quantity := promptInt(in, "Enter quantity: ")

	if err := sess.Sell(ctx, positionNo, quantity); err != nil {
		return err
	}
	fmt.Println("sold successfully")
	return nil
}

// reportError renders a session failure without ending the loop.
func reportError(err error) {
	switch {
	case errors.Is(err, models.ErrStaleSnapshot):
		fmt.Println("your snapshot was out of date and has been refreshed, please try again")
	case errors.Is(err, models.ErrAccessDenied):
		fmt.Println("server says: not logged in")
	default:
		fmt.Printf("server says: %v\n", err)
	}
}

func printOf(text string, err error) error {
	if err != nil {
		return err
	}
	fmt.Print(text)
	return nil
}

func promptLine(in *bufio.Scanner, prompt string) string {
	fmt.Print(prompt)
	if !in.Scan() {
		return ""
	}
	return strings.TrimSpace(in.Text())
}

func promptInt(in *bufio.Scanner, prompt string) int {
	n, err := strconv.Atoi(promptLine(in, prompt))
	if err != nil {
		return -1
	}
	return n
}
