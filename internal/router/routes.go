// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package router

// DefaultRoutes is the storefront's page table without load hooks.
func DefaultRoutes() []Route {
	return []Route{
		{Path: "/", Meta: Meta{Title: "首頁"}},
		{Path: "/login", Meta: Meta{Title: "登入", Access: AccessAnonymousOnly}},
		{Path: "/register", Meta: Meta{Title: "註冊", Access: AccessAnonymousOnly}},
		{Path: "/product/{id}", Meta: Meta{Title: "商品"}},
		{Path: "/cart", Meta: Meta{Title: "購物車", Access: AccessAuthenticatedOnly}},
		{Path: "/orders", Meta: Meta{Title: "訂單", Access: AccessAuthenticatedOnly}},
		{Path: "/admin", Meta: Meta{Title: "管理中心", Access: AccessAdminOnly}},
		{Path: "/admin/products", Meta: Meta{Title: "商品管理", Access: AccessAdminOnly}},
		{Path: "/admin/orders", Meta: Meta{Title: "訂單管理", Access: AccessAdminOnly}},
	}
}
