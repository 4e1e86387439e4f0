// Copyright 2026 The Firewatch Authors
// SPDX-License-Identifier: Apache-2.0

package httpserver

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"testing"
	"time"
)

func TestServeAndShutdown(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, "ok")
	})
	server := New(Config{
		Address: "127.0.0.1:0",
		Handler: handler,
		Logger:  slog.New(slog.DiscardHandler),
	})

	ctx, cancel := context.WithCancel(context.Background())
	serveDone := make(chan error, 1)
	go func() { serveDone <- server.Serve(ctx) }()

	select {
	case <-server.Ready():
	case <-time.After(5 * time.Second):
		t.Fatal("server never became ready")
	}

	response, err := http.Get("http://" + server.Addr().String() + "/")
	if err != nil {
		t.Fatalf("GET: %v", err)
	}
	body, _ := io.ReadAll(response.Body)
	response.Body.Close()
	if string(body) != "ok" {
		t.Errorf("body = %q, want %q", body, "ok")
	}

	cancel()
	select {
	case err := <-serveDone:
		if err != nil {
			t.Errorf("Serve returned error: %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("server did not shut down")
	}
}

func sign(secret, body []byte) string {
	mac := hmac.New(sha256.New, secret)
	mac.Write(body)
	return hex.EncodeToString(mac.Sum(nil))
}

func TestVerifyWebhookHMAC(t *testing.T) {
	secret := []byte("shared-secret")
	body := []byte(`{"messages":[]}`)
	valid := sign(secret, body)

	if err := VerifyWebhookHMAC(secret, body, "v1="+valid); err != nil {
		t.Errorf("prefixed signature rejected: %v", err)
	}
	if err := VerifyWebhookHMAC(secret, body, valid); err != nil {
		t.Errorf("bare signature rejected: %v", err)
	}
	// PagerDuty sends multiple signatures after secret rotation.
	header := "v1=" + sign([]byte("old-secret"), body) + ",v1=" + valid
	if err := VerifyWebhookHMAC(secret, body, header); err != nil {
		t.Errorf("multi-signature header rejected: %v", err)
	}
}

func TestVerifyWebhookHMACRejects(t *testing.T) {
	secret := []byte("shared-secret")
	body := []byte(`{"messages":[]}`)

	if err := VerifyWebhookHMAC(secret, body, "v1="+sign([]byte("wrong"), body)); err == nil {
		t.Error("wrong-secret signature accepted")
	}
	if err := VerifyWebhookHMAC(secret, body, ""); err == nil {
		t.Error("empty signature accepted")
	}
	if err := VerifyWebhookHMAC(secret, nil, "v1=00"); err == nil {
		t.Error("empty body accepted")
	}
	if err := VerifyWebhookHMAC(nil, body, "v1=00"); err == nil {
		t.Error("empty secret accepted")
	}
	if err := VerifyWebhookHMAC(secret, body, "v1=zznothex"); err == nil {
		t.Error("non-hex signature accepted")
	}
}
