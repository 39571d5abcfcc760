package main

import (
	"bytes"
	"fmt"
	"net/http"
	"os"
	"sync"
	"sync/atomic"
	"time"

	"attendance.service/internal/api/middleware"
)

func main() {
	// Matches the docker-compose API and its default JWT_SECRET.
	url := "http://localhost:8080/api/v1/punches"
	secret := os.Getenv("JWT_SECRET")
	if secret == "" {
		secret = "change-me"
	}
	ja := middleware.NewJWTAuth(secret)

	// One ordinary day per employee.
	kinds := []string{"checkin", "lunchout", "lunchin", "checkout"}

	numEmployees := 2500
	totalRequests := numEmployees * len(kinds)
	concurrency := 50 // keeps local ports from running out

	fmt.Printf("Starting load test: %d employees (%d punches each) to %s with concurrency %d\n", numEmployees, len(kinds), url, concurrency)

	client := &http.Client{Timeout: 10 * time.Second}

	var wg sync.WaitGroup
	sem := make(chan struct{}, concurrency)

	var successCount int64
	var failCount int64

	startTime := time.Now()

	for i := 0; i < numEmployees; i++ {
		employeeID := fmt.Sprintf("load-test-emp-%d", i)
		_, token, err := ja.Encode(map[string]interface{}{
			"user_id": employeeID,
			"role":    "employee",
			"exp":     time.Now().Add(time.Hour).Unix(),
		})
		if err != nil {
			fmt.Printf("Could not sign token: %v\n", err)
			os.Exit(1)
		}

		wg.Add(1)
		sem <- struct{}{}

		go func(token string) {
			defer wg.Done()
			defer func() { <-sem }()

			for _, kind := range kinds {
				payload := []byte(fmt.Sprintf(`{"kind": %q, "latitude": 35.68, "longitude": 139.76}`, kind))
				req, err := http.NewRequest(http.MethodPost, url, bytes.NewReader(payload))
				if err != nil {
					atomic.AddInt64(&failCount, 1)
					continue
				}
				req.Header.Set("Content-Type", "application/json")
				req.Header.Set("Authorization", "Bearer "+token)

				resp, err := client.Do(req)
				if err != nil {
					atomic.AddInt64(&failCount, 1)
					continue
				}
				if resp.StatusCode >= 200 && resp.StatusCode < 300 {
					atomic.AddInt64(&successCount, 1)
				} else {
					atomic.AddInt64(&failCount, 1)
				}
				resp.Body.Close()
			}
		}(token)
	}

	wg.Wait()
	duration := time.Since(startTime)

	fmt.Println("\n--- Load Test Results ---")
	fmt.Printf("Total Duration: %v\n", duration)
	fmt.Printf("Total Requests: %d\n", totalRequests)
	fmt.Printf("Successful:     %d\n", successCount)
	fmt.Printf("Failed:         %d\n", failCount)
	fmt.Printf("Requests/Sec:   %.2f\n", float64(totalRequests)/duration.Seconds())
}
