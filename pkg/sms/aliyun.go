package sms

import (
	"context"
	"encoding/json"
	"fmt"

	openapi "github.com/alibabacloud-go/darabonba-openapi/v2/client"
	openapiutil "github.com/alibabacloud-go/openapi-util/service"
	util "github.com/alibabacloud-go/tea-utils/v2/service"
	"github.com/alibabacloud-go/tea/tea"
	credential "github.com/aliyun/credentials-go/credentials"
	"go.uber.org/zap"
)

type AliyunClient struct {
	client       *openapi.Client
	logger       *zap.Logger
	signName     string
	templateCode string
}

// NewAliyunClient 创建阿里云 SMS 客户端
// 使用环境变量自动获取 AccessKey 和 SecretKey
// 需要设置环境变量：ALIBABA_CLOUD_ACCESS_KEY_ID 和 ALIBABA_CLOUD_ACCESS_KEY_SECRET
func NewAliyunClient(signName, templateCode string, logger *zap.Logger) (*AliyunClient, error) {
	if signName == "" {
		return nil, fmt.Errorf("signName is required")
	}
	if templateCode == "" {
		return nil, fmt.Errorf("templateCode is required")
	}

	cred, err := credential.NewCredential(nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create aliyun credential: %w", err)
	}

	openapiConfig := &openapi.Config{
		Credential: cred,
		Endpoint:   tea.String("dysmsapi.aliyuncs.com"),
	}

	client, err := openapi.NewClient(openapiConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create aliyun client: %w", err)
	}

	return &AliyunClient{
		client:       client,
		logger:       logger,
		signName:     signName,
		templateCode: templateCode,
	}, nil
}

// createApiInfo 创建 API 信息
func (c *AliyunClient) createApiInfo(action string) *openapi.Params {
	return &openapi.Params{
		Action:      tea.String(action),
		Version:     tea.String("2017-05-25"),
		Protocol:    tea.String("HTTPS"),
		Method:      tea.String("POST"),
		AuthType:    tea.String("AK"),
		Style:       tea.String("RPC"),
		Pathname:    tea.String("/"),
		ReqBodyType: tea.String("json"),
		BodyType:    tea.String("json"),
	}
}

// Send 发送单条提醒短信，成功返回 BizId
func (c *AliyunClient) Send(ctx context.Context, phone, body string) (string, error) {
	templateParam, err := json.Marshal(map[string]string{"content": body})
	if err != nil {
		return "", fmt.Errorf("failed to marshal template param: %w", err)
	}

	params := c.createApiInfo("SendSms")

	queries := map[string]interface{}{
		"PhoneNumbers":  tea.String(phone),
		"SignName":      tea.String(c.signName),
		"TemplateCode":  tea.String(c.templateCode),
		"TemplateParam": tea.String(string(templateParam)),
	}

	runtime := &util.RuntimeOptions{}
	request := &openapi.OpenApiRequest{
		Query: openapiutil.Query(queries),
	}

	resp, err := c.client.CallApi(params, request, runtime)
	if err != nil {
		c.logger.Error("Failed to send SMS",
			zap.String("phone", phone),
			zap.String("template", c.templateCode),
			zap.Error(err),
		)
		return "", fmt.Errorf("failed to send SMS: %w", err)
	}

	if resp["statusCode"] != nil {
		if statusCode, ok := resp["statusCode"].(int); ok && statusCode != 200 {
			c.logger.Error("SMS API returned error",
				zap.Int("statusCode", statusCode),
				zap.Any("body", resp["body"]),
			)
			return "", fmt.Errorf("SMS API error: statusCode=%d", statusCode)
		}
	}

	// 解析响应体：Code != OK 视为发送失败，成功时取 BizId 作为消息 ID
	var bizID string
	if resp["body"] != nil {
		bodyBytes, _ := json.Marshal(resp["body"])
		var bodyMap map[string]interface{}
		if err := json.Unmarshal(bodyBytes, &bodyMap); err == nil {
			if code, ok := bodyMap["Code"].(string); ok && code != "OK" {
				message := ""
				if msg, ok := bodyMap["Message"].(string); ok {
					message = msg
				}
				c.logger.Error("SMS send failed",
					zap.String("code", code),
					zap.String("message", message),
				)
				return "", fmt.Errorf("SMS send failed: %s - %s", code, message)
			}
			if id, ok := bodyMap["BizId"].(string); ok {
				bizID = id
			}
		}
	}

	c.logger.Info("SMS sent successfully",
		zap.String("phone", phone),
		zap.String("biz_id", bizID),
	)

	return bizID, nil
}
