package cli

import (
	"fmt"
	"math"
	"strconv"

	"github.com/charmbracelet/huh"

	"github.com/theirongolddev/creditcast/internal/model"
)

// PromptCredentials asks for warehouse credentials and the credit price,
// prefilled from creds and price. The password is never prefilled.
func PromptCredentials(creds model.Credentials, price float64) (model.Credentials, float64, error) {
	priceText := strconv.FormatFloat(price, 'f', 2, 64)
	creds.Password = ""

	form := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().Title("Username").Value(&creds.Username).Validate(required("username")),
			huh.NewInput().Title("Password").EchoMode(huh.EchoModePassword).Value(&creds.Password).Validate(required("password")),
			huh.NewInput().Title("Account").Description("e.g. xy12345.us-east-1").Value(&creds.Account).Validate(required("account")),
			huh.NewInput().Title("Role").Value(&creds.Role).Validate(required("role")),
			huh.NewInput().Title("Price per credit ($)").Value(&priceText).Validate(ValidatePrice),
		),
	)
	if err := form.Run(); err != nil {
		return creds, price, err
	}

	p, _ := strconv.ParseFloat(priceText, 64)
	return creds, p, nil
}

// ValidatePrice accepts non-negative decimal prices.
func ValidatePrice(s string) error {
	p, err := strconv.ParseFloat(s, 64)
	if err != nil || p < 0 || math.IsNaN(p) || math.IsInf(p, 0) {
		return fmt.Errorf("enter a price of zero or more")
	}
	return nil
}

func required(name string) func(string) error {
	return func(s string) error {
		if s == "" {
			return fmt.Errorf("%s is required", name)
		}
		return nil
	}
}
