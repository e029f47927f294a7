package controllers

import (
    "bytes"
    "encoding/csv"
    "fmt"
    "net/http"
    "strings"
    "time"

    "github.com/gin-gonic/gin"
    "github.com/google/uuid"
    "gorm.io/gorm"

    "github.com/vnkhanh/invite-server/config"
    "github.com/vnkhanh/invite-server/models"
    "github.com/vnkhanh/invite-server/utils"
)

type ExportRequest struct {
    Format    string  `json:"format"`
    RangeFrom *string `json:"range_from,omitempty"`
    RangeTo   *string `json:"range_to,omitempty"`
}

// POST /api/invites/export
func CreateExport(c *gin.Context) {
    var req ExportRequest
    if err := c.ShouldBindJSON(&req); err != nil {
        c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid payload"})
        return
    }
    if req.Format == "" {
        req.Format = "csv"
    }

    var fromPtr, toPtr *time.Time
    if req.RangeFrom != nil {
        if t, err := utils.ParseTimestamp(*req.RangeFrom); err == nil {
            fromPtr = &t
        }
    }
    if req.RangeTo != nil {
        if t, err := utils.ParseTimestamp(*req.RangeTo); err == nil {
            toPtr = &t
        }
    }

    jobID := uuid.New().String()
    job := models.ExportJob{
        JobID:     jobID,
        Format:    req.Format,
        RangeFrom: fromPtr,
        RangeTo:   toPtr,
        Status:    "queued",
    }
    config.DB.Create(&job)

    go processExportJob(jobID)

    c.JSON(http.StatusAccepted, gin.H{
        "job_id": jobID,
        "status": "queued",
    })
}

// GET /api/exports/:job_id
func GetExport(c *gin.Context) {
    jobID := c.Param("job_id")
    var job models.ExportJob
    if err := config.DB.First(&job, "job_id = ?", jobID).Error; err != nil {
        if err == gorm.ErrRecordNotFound {
            c.JSON(http.StatusNotFound, gin.H{"message": "Job not found"})
            return
        }
        c.JSON(http.StatusInternalServerError, gin.H{"message": "DB error"})
        return
    }

    c.JSON(http.StatusOK, gin.H{
        "job_id":   job.JobID,
        "status":   job.Status,
        "file_url": job.FileURL,
        "error":    job.ErrorMsg,
    })
}

func processExportJob(jobID string) {
    var job models.ExportJob
    if err := config.DB.First(&job, "job_id = ?", jobID).Error; err != nil {
        return
    }
    config.DB.Model(&job).Update("status", "processing")

    var buf bytes.Buffer
    w := csv.NewWriter(&buf)

    w.Write([]string{"token", "inviter_id", "email", "groups", "expiry", "created_at", "used_at", "redeemed_by"})

    var invites []models.Invite
    q := config.DB.Preload("Groups", func(db *gorm.DB) *gorm.DB {
        return db.Order("position asc")
    }).Order("created_at asc")
    if job.RangeFrom != nil {
        q = q.Where("created_at >= ?", job.RangeFrom)
    }
    if job.RangeTo != nil {
        q = q.Where("created_at <= ?", job.RangeTo)
    }
    if err := q.Find(&invites).Error; err != nil {
        em := err.Error()
        config.DB.Model(&job).Updates(map[string]interface{}{"status": "failed", "error_msg": em})
        return
    }

    for _, inv := range invites {
        expiry, usedAt, redeemedBy := "", "", ""
        if inv.Expiry != nil {
            expiry = utils.FormatTimestamp(*inv.Expiry)
        }
        if inv.UsedAt != nil {
            usedAt = utils.FormatTimestamp(*inv.UsedAt)
        }
        if inv.RedeemedBy != nil {
            redeemedBy = fmt.Sprintf("%d", *inv.RedeemedBy)
        }
        w.Write([]string{
            inv.Token,
            fmt.Sprintf("%d", inv.InviterID),
            inv.Email,
            strings.Join(inv.GroupNames(), ","),
            expiry,
            utils.FormatTimestamp(inv.CreatedAt),
            usedAt,
            redeemedBy,
        })
    }
    w.Flush()

    filename := fmt.Sprintf("invites_%s.csv", job.JobID)
    url, err := utils.UploadExport(buf.Bytes(), filename, job.JobID)
    if err != nil {
        em := err.Error()
        config.DB.Model(&job).Updates(map[string]interface{}{"status": "failed", "error_msg": em})
        return
    }

    config.DB.Model(&job).Updates(map[string]interface{}{"status": "done", "file_url": url})
}
