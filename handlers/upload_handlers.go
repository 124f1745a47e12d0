package handlers

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"

	"app/processing"
)

// HandleUploadCSVs receives the products and sales CSV files, validates
// them synchronously, archives the raw and cleaned artifacts, and
// schedules the forecasting pipeline. The response is returned before any
// training happens; pipeline outcomes are observable only via the
// predictions endpoint and the logs.
// POST /api/v1/upload
func (h *Handler) HandleUploadCSVs(c *fiber.Ctx) error {
	productsData, err := readFormFile(c, "products_file")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"status":  "error",
			"message": "products_file is required",
		})
	}
	salesData, err := readFormFile(c, "sales_file")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"status":  "error",
			"message": "sales_file is required",
		})
	}

	productsTable, err := processing.ParseTable(bytes.NewReader(productsData))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"status":  "error",
			"message": fmt.Sprintf("invalid products file: %v", err),
		})
	}
	if ok, msg := processing.ValidateTable(productsTable, processing.ProductColumns); !ok {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"status":  "error",
			"message": "invalid products file: " + msg,
		})
	}

	salesTable, err := processing.ParseTable(bytes.NewReader(salesData))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"status":  "error",
			"message": fmt.Sprintf("invalid sales file: %v", err),
		})
	}
	if ok, msg := processing.ValidateTable(salesTable, processing.SalesColumns); !ok {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"status":  "error",
			"message": "invalid sales file: " + msg,
		})
	}

	timestamp := time.Now().UTC().Format("20060102150405")
	rawProductsKey := fmt.Sprintf("raw/products_%s.csv", timestamp)
	rawSalesKey := fmt.Sprintf("raw/sales_%s.csv", timestamp)

	if err := h.sink.Put(c.Context(), rawProductsKey, bytes.NewReader(productsData)); err != nil {
		h.log.WithField("error", err).Error("failed to archive raw products file")
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"status":  "error",
			"message": "failed to store raw products file",
		})
	}
	if err := h.sink.Put(c.Context(), rawSalesKey, bytes.NewReader(salesData)); err != nil {
		h.log.WithField("error", err).Error("failed to archive raw sales file")
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"status":  "error",
			"message": "failed to store raw sales file",
		})
	}

	products, productStats := processing.CleanProducts(productsTable)
	sales, salesStats := processing.CleanSales(salesTable)

	h.log.WithFields(logrus.Fields{
		"input_rows":        productStats.InputRows,
		"output_rows":       productStats.OutputRows,
		"dropped_missing":   productStats.DroppedMissing,
		"dropped_duplicate": productStats.DroppedDuplicate,
	}).Info("cleaned products file")
	h.log.WithFields(logrus.Fields{
		"input_rows":        salesStats.InputRows,
		"output_rows":       salesStats.OutputRows,
		"dropped_missing":   salesStats.DroppedMissing,
		"dropped_bad_date":  salesStats.DroppedBadDate,
		"dropped_cancelled": salesStats.DroppedCancelled,
	}).Info("cleaned sales file")

	processedProductsKey := fmt.Sprintf("processed/products_%s.csv", timestamp)
	processedSalesKey := fmt.Sprintf("processed/sales_%s.csv", timestamp)

	var buf bytes.Buffer
	if err := processing.WriteProductsCSV(&buf, products); err == nil {
		if err := h.sink.Put(c.Context(), processedProductsKey, &buf); err != nil {
			h.log.WithField("error", err).Error("failed to archive processed products dataset")
		}
	}
	buf.Reset()
	if err := processing.WriteSalesCSV(&buf, sales); err == nil {
		if err := h.sink.Put(c.Context(), processedSalesKey, &buf); err != nil {
			h.log.WithField("error", err).Error("failed to archive processed sales dataset")
		}
	}

	horizonDays := h.horizonDays
	h.runner.Enqueue(func(ctx context.Context) {
		h.coordinator.Execute(ctx, products, sales, horizonDays)
	})

	return c.Status(fiber.StatusAccepted).JSON(fiber.Map{
		"status":          "success",
		"message":         "Files received. Processing has started.",
		"raw_files":       []string{rawProductsKey, rawSalesKey},
		"processed_files": []string{processedProductsKey, processedSalesKey},
	})
}

// readFormFile reads one uploaded multipart file fully into memory. The
// pipeline works on materialized datasets, never on open file handles.
func readFormFile(c *fiber.Ctx, field string) ([]byte, error) {
	header, err := c.FormFile(field)
	if err != nil {
		return nil, err
	}
	return readMultipartFile(header)
}

func readMultipartFile(header *multipart.FileHeader) ([]byte, error) {
	f, err := header.Open()
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return io.ReadAll(f)
}
