// File: flamesblue/main.go
package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"

	"flamesblue/config"
	"flamesblue/gateway"
	"flamesblue/models"
	"flamesblue/services/listing"
	"flamesblue/session"
	"flamesblue/utils"

	"github.com/joho/godotenv"
)

func main() {
	_ = godotenv.Load()
	config.LoadConfig()
	logger := utils.GetLogger()

	gw := gateway.NewHTTPGateway(config.AppConfig.BackendURL)
	ctrl := session.NewController(gw, config.SplashDwell())
	ctrl.Start()

	logger.Sugar().Infof("Flames.Blue client started against %s", config.AppConfig.BackendURL)
	fmt.Println("Flames.Blue - type 'help' for commands.")

	scanner := bufio.NewScanner(os.Stdin)
	for {
		fmt.Printf("[%s] > ", ctrl.Stage())
		if !scanner.Scan() {
			return
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		cmd, arg := splitCommand(line)
		if cmd == "quit" || cmd == "exit" {
			return
		}
		dispatch(ctrl, cmd, arg)
	}
}

func splitCommand(line string) (string, string) {
	parts := strings.SplitN(line, " ", 2)
	cmd := strings.ToLower(parts[0])
	arg := ""
	if len(parts) == 2 {
		arg = strings.TrimSpace(parts[1])
	}
	return cmd, arg
}

// dispatch routes one command to the current stage. Network-bound actions run
// off this loop so input stays responsive while a request is in flight.
func dispatch(ctrl *session.Controller, cmd, arg string) {
	ctx := context.Background()

	switch cmd {
	case "help":
		printHelp()

	case "phone":
		flow := ctrl.AuthFlow()
		if flow == nil {
			fmt.Println("not on the auth screen")
			return
		}
		go func() {
			if err := flow.SubmitPhone(ctx, arg); err != nil {
				fmt.Printf("\n%v\n", err)
				return
			}
			fmt.Println("\ncode sent - enter it with: code <otp>")
		}()

	case "code":
		flow := ctrl.AuthFlow()
		if flow == nil {
			fmt.Println("not on the auth screen")
			return
		}
		go func() {
			if err := flow.SubmitCode(ctx, arg); err != nil {
				fmt.Printf("\n%v\n", err)
				return
			}
			fmt.Println("\nwelcome!")
		}()

	case "nav":
		var to models.Stage
		switch arg {
		case "list":
			to = models.StageListVehicle
		case "booking":
			to = models.StageBooking
		case "support":
			to = models.StageSupport
		default:
			fmt.Println("destinations: list, booking, support")
			return
		}
		if err := ctrl.Navigate(to); err != nil {
			fmt.Println(err)
		}

	case "back":
		if err := ctrl.Back(); err != nil {
			fmt.Println(err)
		}

	case "next":
		if w := ctrl.Wizard(); w != nil {
			if err := w.Advance(); err != nil {
				fmt.Println(err)
			}
			return
		}
		fmt.Println("not in the listing wizard")

	case "prev":
		if w := ctrl.Wizard(); w != nil {
			if err := w.Retreat(); err != nil {
				fmt.Println(err)
			}
			return
		}
		fmt.Println("not in the listing wizard")

	case "set":
		setDraftField(ctrl, arg)

	case "submit":
		w := ctrl.Wizard()
		if w == nil {
			fmt.Println("not in the listing wizard")
			return
		}
		go func() {
			if err := w.Submit(ctx); err != nil {
				fmt.Printf("\n%v\n", err)
			}
		}()

	case "vehicles":
		flow := ctrl.BookingFlow()
		if flow == nil {
			fmt.Println("not on the booking screen")
			return
		}
		for _, v := range flow.Vehicles() {
			fmt.Printf("  %s  %-20s %s  $%.0f/day\n", v.ID, v.Title, v.Category, v.PricePerDay)
		}

	case "date":
		if flow := ctrl.BookingFlow(); flow != nil {
			flow.SelectDate(arg)
			return
		}
		fmt.Println("not on the booking screen")

	case "pick":
		if flow := ctrl.BookingFlow(); flow != nil {
			flow.SelectVehicle(arg)
			return
		}
		fmt.Println("not on the booking screen")

	case "say":
		chat := ctrl.SupportChat()
		if chat == nil {
			fmt.Println("not on the support screen")
			return
		}
		go func() {
			if err := chat.Send(ctx, arg); err != nil {
				fmt.Printf("\n%v\n", err)
				return
			}
			for _, m := range chat.Transcript() {
				fmt.Printf("\n  %s: %s", m.Sender, m.Text)
			}
			fmt.Println()
		}()

	default:
		fmt.Println("unknown command - try 'help'")
	}
}

func setDraftField(ctrl *session.Controller, arg string) {
	w := ctrl.Wizard()
	if w == nil {
		fmt.Println("not in the listing wizard")
		return
	}
	field, value := splitCommand(arg)
	switch field {
	case "category":
		cat := models.VehicleCategory(value)
		w.Update(listing.DraftPatch{Category: &cat})
	case "title":
		w.Update(listing.DraftPatch{Title: &value})
	case "description":
		w.Update(listing.DraftPatch{Description: &value})
	case "insurance":
		on := value == "on" || value == "true"
		w.Update(listing.DraftPatch{HasInsurance: &on})
	case "price":
		w.Update(listing.DraftPatch{PricePerDay: &value})
	default:
		fmt.Println("fields: category, title, description, insurance, price")
	}
}

func printHelp() {
	fmt.Print(`commands:
  phone <number>        send an OTP to this phone (auth)
  code <otp>            verify the received code (auth)
  nav list|booking|support
  back                  return to the dashboard
  next / prev           move through the listing wizard
  set <field> <value>   update the listing draft
  submit                submit the listing draft
  vehicles              show the catalog (booking)
  date <yyyy-mm-dd>     choose a rental date (booking)
  pick <vehicle-id>     choose a vehicle (booking)
  say <message>         message support
  quit
`)
}
