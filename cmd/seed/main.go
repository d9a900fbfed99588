// Seeds the transaction data file with a starter set of records.
// Does nothing when the file already has data.
package main

import (
	"log"
	"os"

	"github.com/joho/godotenv"

	"opto-backend/internal/models"
	"opto-backend/internal/store"
)

var initialTransactions = []models.Transaction{
	{ID: "1", Description: "Whole Foods", Amount: -127.45, Category: "Groceries", Icon: "ShoppingCart", Owner: "partner", Date: "Dec 28"},
	{ID: "2", Description: "Starbucks", Amount: -8.50, Category: "Dining", Icon: "Coffee", Owner: "me", Date: "Dec 28"},
	{ID: "3", Description: "Gas Station", Amount: -52.00, Category: "Transport", Icon: "Car", Owner: "shared", Date: "Dec 27"},
	{ID: "4", Description: "Rent Payment", Amount: -1800.00, Category: "Housing", Icon: "Home", Owner: "shared", Date: "Dec 27"},
	{ID: "5", Description: "Chipotle", Amount: -15.75, Category: "Dining", Icon: "Utensils", Owner: "me", Date: "Dec 26"},
	{ID: "6", Description: "Netflix", Amount: -15.99, Category: "Entertainment", Icon: "Film", Owner: "shared", Date: "Dec 26"},
	{ID: "7", Description: "Electric Bill", Amount: -142.50, Category: "Utilities", Icon: "Zap", Owner: "shared", Date: "Dec 25"},
	{ID: "8", Description: "Salary Deposit", Amount: 3500.00, Category: "Income", Icon: "Briefcase", Owner: "me", Date: "Dec 24"},
	{ID: "9", Description: "Target", Amount: -89.32, Category: "Shopping", Icon: "ShoppingCart", Owner: "partner", Date: "Dec 24"},
	{ID: "10", Description: "Partner Salary", Amount: 3200.00, Category: "Income", Icon: "Briefcase", Owner: "partner", Date: "Dec 24"},
	{ID: "11", Description: "Credit Card Payment", Amount: -500.00, Category: "Transfer", Icon: "CreditCard", Owner: "me", Date: "Dec 23"},
	{ID: "12", Description: "Uber", Amount: -24.50, Category: "Transport", Icon: "Car", Owner: "partner", Date: "Dec 23"},
	{ID: "13", Description: "Dinner Date", Amount: -85.00, Category: "Dining", Icon: "Utensils", Owner: "shared", Date: "Dec 22"},
	{ID: "14", Description: "Gym Membership", Amount: -49.99, Category: "Health", Icon: "Briefcase", Owner: "me", Date: "Dec 22"},
}

func main() {
	if err := godotenv.Load("../.env"); err != nil {
		_ = godotenv.Load(".env")
	}

	path := os.Getenv("TRANSACTIONS_FILE")
	if path == "" {
		path = "data/transactions.json"
	}

	txs, err := store.NewTransactionStore(path)
	if err != nil {
		log.Fatalf("transaction store: %v", err)
	}

	seeded, err := txs.Seed(initialTransactions)
	if err != nil {
		log.Fatalf("seed: %v", err)
	}
	if !seeded {
		log.Println("Transaction file already has data. Skipping seed.")
		return
	}
	log.Printf("Seeded %d transactions to %s", len(initialTransactions), path)
}
