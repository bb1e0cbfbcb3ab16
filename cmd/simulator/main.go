package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math/rand"
	"net/http"
	"os"
	"strconv"
	"time"

	log "github.com/sirupsen/logrus"
)

// Offence mirrors the API's offence record.
type Offence struct {
	ID            string  `json:"id"`
	OffenderName  string  `json:"offenderName"`
	VehicleNumber string  `json:"vehicleNumber"`
	OffenceType   string  `json:"offenceType"`
	Location      string  `json:"location"`
	DateTime      string  `json:"dateTime"`
	FineAmount    float64 `json:"fineAmount"`
	PaymentStatus string  `json:"paymentStatus"`
}

// Card mirrors the API's payment payload.
type Card struct {
	CardholderName string `json:"cardholderName"`
	CardNumber     string `json:"cardNumber"`
	Expiry         string `json:"expiry"`
	CVV            string `json:"cvv"`
}

var offenceTypes = []string{
	"Speeding",
	"Seatbelt Violation",
	"Dangerous Driving",
	"Overloading",
	"Driving Without License",
	"Phone Use While Driving",
	"Traffic Light Violation",
	"Wrong Way Driving",
	"Drunk Driving",
	"Expired Documents",
}

var stateCodes = []string{"LAG", "NAS", "ABJ", "KAN", "KAD", "OYO", "RIV", "ENU"}

var offenderNames = []string{
	"Adewale Johnson",
	"Fatima Mohammed",
	"Chukwudi Okafor",
	"Ngozi Eze",
	"Ibrahim Musa",
	"Funke Adebayo",
	"Emeka Obi",
	"Aisha Bello",
}

var locations = []string{
	"Lafia-Makurdi Road",
	"Lafia Central Market",
	"Shabu Junction",
	"Akwanga Expressway",
	"Doma Road Checkpoint",
	"Keffi Bypass",
}

var authToken string

func authorizedPost(url string, contentType string, body *bytes.Buffer) (*http.Response, error) {
	req, err := http.NewRequest(http.MethodPost, url, body)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", contentType)
	if authToken != "" {
		req.Header.Set("Authorization", "Bearer "+authToken)
	}
	client := &http.Client{Timeout: 10 * time.Second}
	return client.Do(req)
}

func authorizedGet(url string) (*http.Response, error) {
	req, err := http.NewRequest(http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	if authToken != "" {
		req.Header.Set("Authorization", "Bearer "+authToken)
	}
	client := &http.Client{Timeout: 10 * time.Second}
	return client.Do(req)
}

func login(apiURL, email, password string) (string, error) {
	payload, err := json.Marshal(map[string]string{"email": email, "password": password})
	if err != nil {
		return "", err
	}

	resp, err := http.Post(apiURL+"/auth/login", "application/json", bytes.NewBuffer(payload))
	if err != nil {
		return "", fmt.Errorf("login request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("login failed with status: %d", resp.StatusCode)
	}

	var result struct {
		Token string `json:"token"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return "", fmt.Errorf("failed to decode login response: %w", err)
	}
	return result.Token, nil
}

// randomPlate generates a vehicle number in the STATE-123-AB format.
func randomPlate() string {
	letters := "ABCDEFGHJKLMNPRSTUVWXYZ"
	code := stateCodes[rand.Intn(len(stateCodes))]
	return fmt.Sprintf("%s-%d%d%d-%c%c",
		code,
		rand.Intn(10), rand.Intn(10), rand.Intn(10),
		letters[rand.Intn(len(letters))], letters[rand.Intn(len(letters))])
}

func randomOffence() Offence {
	return Offence{
		OffenderName:  offenderNames[rand.Intn(len(offenderNames))],
		VehicleNumber: randomPlate(),
		OffenceType:   offenceTypes[rand.Intn(len(offenceTypes))],
		Location:      locations[rand.Intn(len(locations))],
		DateTime:      time.Now().Format("2006-01-02T15:04:05"),
		FineAmount:    float64(1000 * (1 + rand.Intn(30))),
	}
}

// randomCard produces card input that passes the gateway's shape checks.
func randomCard() Card {
	number := ""
	for i := 0; i < 16; i++ {
		number += strconv.Itoa(rand.Intn(10))
	}
	return Card{
		CardholderName: offenderNames[rand.Intn(len(offenderNames))],
		CardNumber:     number,
		Expiry:         fmt.Sprintf("%02d/%02d", 1+rand.Intn(12), 26+rand.Intn(4)),
		CVV:            fmt.Sprintf("%03d", rand.Intn(1000)),
	}
}

func recordOffence(apiURL string) {
	off := randomOffence()
	data, err := json.Marshal(off)
	if err != nil {
		log.WithError(err).Error("Failed to marshal offence")
		return
	}

	resp, err := authorizedPost(apiURL+"/offences", "application/json", bytes.NewBuffer(data))
	if err != nil {
		log.WithError(err).Error("Failed to record offence")
		return
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusCreated {
		log.WithField("status", resp.Status).Error("Offence creation failed")
		return
	}

	var created Offence
	if err := json.NewDecoder(resp.Body).Decode(&created); err != nil {
		log.WithError(err).Error("Failed to decode offence response")
		return
	}

	log.WithFields(log.Fields{
		"offence_id": created.ID,
		"vehicle":    created.VehicleNumber,
		"type":       created.OffenceType,
		"fine":       created.FineAmount,
	}).Info("Recorded offence")
}

func payPendingFine(apiURL string) {
	resp, err := authorizedGet(apiURL + "/offences")
	if err != nil {
		log.WithError(err).Error("Failed to list offences")
		return
	}
	defer resp.Body.Close()

	var offences []Offence
	if err := json.NewDecoder(resp.Body).Decode(&offences); err != nil {
		log.WithError(err).Error("Failed to decode offence list")
		return
	}

	var pending []Offence
	for _, off := range offences {
		if off.PaymentStatus == "Pending" {
			pending = append(pending, off)
		}
	}
	if len(pending) == 0 {
		return
	}

	target := pending[rand.Intn(len(pending))]
	data, err := json.Marshal(randomCard())
	if err != nil {
		log.WithError(err).Error("Failed to marshal card")
		return
	}

	payResp, err := authorizedPost(apiURL+"/offences/"+target.ID+"/pay", "application/json", bytes.NewBuffer(data))
	if err != nil {
		log.WithError(err).Error("Failed to pay fine")
		return
	}
	defer payResp.Body.Close()

	log.WithFields(log.Fields{
		"offence_id": target.ID,
		"status":     payResp.Status,
	}).Info("Paid fine")
}

func main() {
	apiURL := os.Getenv("API_BASE_URL")
	if apiURL == "" {
		apiURL = "http://localhost:8080/api"
	}

	adminEmail := os.Getenv("ADMIN_EMAIL")
	if adminEmail == "" {
		adminEmail = "admin@frsc.gov.ng"
	}
	adminPassword := os.Getenv("ADMIN_PASSWORD")
	if adminPassword == "" {
		adminPassword = "12345"
	}

	interval := 5 * time.Second
	if v := os.Getenv("SIM_TICK_SECONDS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n >= 1 {
			interval = time.Duration(n) * time.Second
		}
	}

	token, err := login(apiURL, adminEmail, adminPassword)
	if err != nil {
		log.WithError(err).Fatal("Admin login failed. Ensure the API is reachable.")
	}
	authToken = token

	log.WithFields(log.Fields{
		"api_url":  apiURL,
		"interval": interval,
	}).Info("Starting offence simulation")

	tick := time.NewTicker(interval)
	defer tick.Stop()

	count := 0
	for range tick.C {
		recordOffence(apiURL)
		count++
		// Settle roughly every third fine to keep both statuses represented.
		if count%3 == 0 {
			payPendingFine(apiURL)
		}
	}
}
