package tools

import (
	"context"
	"fmt"

	"github.com/freeshineit/mcp-server-go/internal/mcp"
)

func stringArg(args map[string]interface{}, key string) (string, error) {
	v, ok := args[key]
	if !ok {
		return "", fmt.Errorf("missing required argument %q", key)
	}
	s, ok := v.(string)
	if !ok {
		return "", fmt.Errorf("argument %q must be a string", key)
	}
	return s, nil
}

// SearchFilesTool reports files matching a pattern under a directory.
// The results are canned; the tool exists to exercise the call path.
type SearchFilesTool struct{}

func (t *SearchFilesTool) Definition() mcp.Tool {
	return mcp.Tool{
		Name:        "search_files",
		Description: "在文件系统中搜索文件",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]mcp.Property{
				"pattern":   {Type: "string", Description: "搜索模式（支持通配符）"},
				"directory": {Type: "string", Description: "搜索目录"},
			},
			Required: []string{"pattern"},
		},
	}
}

func (t *SearchFilesTool) Execute(_ context.Context, args map[string]interface{}) (mcp.CallToolResult, error) {
	pattern, err := stringArg(args, "pattern")
	if err != nil {
		return mcp.CallToolResult{}, err
	}
	directory := "."
	if d, ok := args["directory"].(string); ok {
		directory = d
	}

	text := fmt.Sprintf(
		"在目录 %s 中搜索模式 '%s'\n找到以下文件:\n1. /path/to/file1.txt\n2. /path/to/file2.log",
		directory, pattern)
	return mcp.CallToolResult{
		Content: []mcp.Content{{Type: "text", Text: text}},
	}, nil
}

// WeatherTool returns a canned weather report for a city.
type WeatherTool struct{}

func (t *WeatherTool) Definition() mcp.Tool {
	return mcp.Tool{
		Name:        "get_weather",
		Description: "获取天气信息",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]mcp.Property{
				"city": {Type: "string", Description: "城市名称"},
			},
			Required: []string{"city"},
		},
	}
}

func (t *WeatherTool) Execute(_ context.Context, args map[string]interface{}) (mcp.CallToolResult, error) {
	city, err := stringArg(args, "city")
	if err != nil {
		return mcp.CallToolResult{}, err
	}

	text := fmt.Sprintf("%s 的天气:\n温度: 22°C\n天气: 晴朗\n湿度: 65%%", city)
	return mcp.CallToolResult{
		Content: []mcp.Content{{Type: "text", Text: text}},
	}, nil
}
